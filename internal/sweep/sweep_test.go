package sweep

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/lplab/internal/config"
	"github.com/san-kum/lplab/internal/simplex"
)

func TestGridValues(t *testing.T) {
	got := Grid{From: 0, To: 1, Steps: 5}.Values()
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("value %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	if single := (Grid{From: 3, To: 9, Steps: 1}).Values(); len(single) != 1 || single[0] != 3 {
		t.Errorf("expected single point at 3, got %v", single)
	}
}

func TestSweepRHS(t *testing.T) {
	cfg := config.GetPreset(config.KindLP, "bounded")
	s := New(Grid{Target: TargetB, Index: 0, From: -1, To: 6, Steps: 8}, 0)

	points, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if points[0].Status != simplex.InvalidInput {
		t.Errorf("expected negative rhs to be invalid_input, got %s", points[0].Status)
	}

	want := []float64{0, 3, 6, 8, 10, 12, 12}
	for i, w := range want {
		p := points[i+1]
		if p.Status != simplex.Optimal {
			t.Errorf("b0=%v: expected optimal, got %s", p.Param, p.Status)
			continue
		}
		if math.Abs(p.Value-w) > 1e-9 {
			t.Errorf("b0=%v: expected value %v, got %v", p.Param, w, p.Value)
		}
	}

	// at b0=2 the tie goes to row 0, so only the sum constraint is priced
	if d := points[3].Dual; math.Abs(d[0]-3) > 1e-9 || d[1] != 0 {
		t.Errorf("unexpected dual prices %v at b0=2", d)
	}

	best, ok := Best(points)
	if !ok || best.Value != 12 || best.Param != 5 {
		t.Errorf("expected best 12 at b0=5, got %+v (ok=%v)", best, ok)
	}

	if cfg.B[0] != 4 {
		t.Error("sweep mutated the input problem")
	}
}

func TestSweepObjective(t *testing.T) {
	cfg := config.GetPreset(config.KindLP, "bounded")
	points, err := New(Grid{Target: TargetC, Index: 1, From: 0, To: 4, Steps: 5}, 0).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	want := []float64{6, 8, 10, 12, 15}
	for i, w := range want {
		if math.Abs(points[i].Value-w) > 1e-9 {
			t.Errorf("c1=%v: expected value %v, got %v", points[i].Param, w, points[i].Value)
		}
	}
}

func TestSweepReportsUnbounded(t *testing.T) {
	cfg := config.GetPreset(config.KindLP, "unbounded")
	points, err := New(Grid{Target: TargetC, Index: 0, From: -1, To: 1, Steps: 3}, 0).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	statuses := []simplex.Status{simplex.Optimal, simplex.Optimal, simplex.Unbounded}
	for i, s := range statuses {
		if points[i].Status != s {
			t.Errorf("c0=%v: expected %s, got %s", points[i].Param, s, points[i].Status)
		}
	}

	series := Series(points)
	if len(series) != 3 || series[2] != series[1] {
		t.Errorf("expected unbounded point to carry previous value, got %v", series)
	}
}

func TestSweepRejectsBadGrid(t *testing.T) {
	lp := config.GetPreset(config.KindLP, "bounded")
	g := config.GetPreset(config.KindGame, "rps")

	tests := []struct {
		name string
		grid Grid
		cfg  *config.Config
	}{
		{"zero steps", Grid{Target: TargetB, Steps: 0}, lp},
		{"index out of range", Grid{Target: TargetB, Index: 3, Steps: 2}, lp},
		{"negative index", Grid{Target: TargetC, Index: -1, Steps: 2}, lp},
		{"unknown target", Grid{Target: "a", Steps: 2}, lp},
		{"infinite bound", Grid{Target: TargetB, To: math.Inf(1), Steps: 2}, lp},
		{"game", Grid{Target: TargetB, Steps: 2}, g},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.grid, 0).Run(context.Background(), tt.cfg); !errors.Is(err, ErrBadGrid) {
				t.Errorf("expected ErrBadGrid, got %v", err)
			}
		})
	}
}

func TestBestNoneOptimal(t *testing.T) {
	if _, ok := Best([]Point{{Status: simplex.Unbounded}}); ok {
		t.Error("expected no best point")
	}
}
