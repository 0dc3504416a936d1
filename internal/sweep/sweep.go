// Package sweep re-solves an LP while one right-hand side or objective
// coefficient moves across a grid, tracing the optimal value as a
// function of that parameter.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/lplab/internal/config"
	"github.com/san-kum/lplab/internal/simplex"
)

type Target string

const (
	TargetB Target = "b"
	TargetC Target = "c"
)

var ErrBadGrid = errors.New("sweep: invalid grid")

type Grid struct {
	Target Target
	Index  int
	From   float64
	To     float64
	Steps  int
}

// Values returns the Steps evenly spaced parameter values from From to To.
func (g Grid) Values() []float64 {
	if g.Steps == 1 {
		return []float64{g.From}
	}
	step := (g.To - g.From) / float64(g.Steps-1)
	out := make([]float64, g.Steps)
	for i := range out {
		out[i] = g.From + float64(i)*step
	}
	out[len(out)-1] = g.To
	return out
}

type Point struct {
	Param  float64        `json:"param"`
	Value  float64        `json:"value"`
	Status simplex.Status `json:"status"`
	Pivots int            `json:"pivots"`
	Dual   []float64      `json:"dual,omitempty"`
}

type Sweep struct {
	grid      Grid
	maxPivots int
}

func New(grid Grid, maxPivots int) *Sweep {
	return &Sweep{grid: grid, maxPivots: maxPivots}
}

func (s *Sweep) validate(cfg *config.Config) error {
	g := s.grid
	if g.Steps < 1 {
		return fmt.Errorf("%w: steps must be >= 1", ErrBadGrid)
	}
	if math.IsNaN(g.From) || math.IsNaN(g.To) || math.IsInf(g.From, 0) || math.IsInf(g.To, 0) {
		return fmt.Errorf("%w: bounds must be finite", ErrBadGrid)
	}
	if cfg.Kind != config.KindLP {
		return fmt.Errorf("%w: only lp problems can be swept", ErrBadGrid)
	}
	var size int
	switch g.Target {
	case TargetB:
		size = len(cfg.B)
	case TargetC:
		size = len(cfg.C)
	default:
		return fmt.Errorf("%w: unknown target %q", ErrBadGrid, g.Target)
	}
	if g.Index < 0 || g.Index >= size {
		return fmt.Errorf("%w: %s[%d] out of range", ErrBadGrid, g.Target, g.Index)
	}
	return nil
}

// Run solves cfg once per grid value. Points that are unbounded or
// infeasible for the engine are reported through Status, not as errors.
func (s *Sweep) Run(ctx context.Context, cfg *config.Config) ([]Point, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}

	values := s.grid.Values()
	points := make([]Point, 0, len(values))
	for _, v := range values {
		select {
		case <-ctx.Done():
			return points, ctx.Err()
		default:
		}

		p := cfg.Clone()
		if s.grid.Target == TargetB {
			p.B[s.grid.Index] = v
		} else {
			p.C[s.grid.Index] = v
		}

		pt := Point{Param: v}
		sol, err := simplex.Solve(p.A, p.B, p.C, simplex.WithMaxPivots(s.maxPivots))
		if err != nil {
			pt.Status = simplex.StatusOf(err)
			var se *simplex.SolveError
			if errors.As(err, &se) {
				pt.Pivots = se.Pivots
			}
		} else {
			pt.Status = simplex.Optimal
			pt.Value = sol.Value
			pt.Pivots = sol.Pivots
			pt.Dual = sol.Dual
		}
		points = append(points, pt)
	}
	return points, nil
}

// Best returns the optimal point with the largest value. ok is false when
// no point was optimal.
func Best(points []Point) (best Point, ok bool) {
	for _, p := range points {
		if p.Status != simplex.Optimal {
			continue
		}
		if !ok || p.Value > best.Value {
			best, ok = p, true
		}
	}
	return best, ok
}

// Series returns the optimal values, carrying the previous value across
// points that were not optimal so the series can be charted.
func Series(points []Point) []float64 {
	out := make([]float64, 0, len(points))
	last := 0.0
	for _, p := range points {
		if p.Status == simplex.Optimal {
			last = p.Value
		}
		out = append(out, last)
	}
	return out
}
