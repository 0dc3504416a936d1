package simplex

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

type problem struct {
	A [][]float64
	b []float64
	c []float64
}

var (
	scenarioA = problem{
		A: [][]float64{{1, 1}, {1, 0}, {0, 1}},
		b: []float64{4, 2, 3},
		c: []float64{3, 2},
	}
	scenarioB = problem{
		A: [][]float64{{-1, 1}},
		b: []float64{1},
		c: []float64{1, 0},
	}
	brewer = problem{
		A: [][]float64{{5, 15}, {4, 4}, {35, 20}},
		b: []float64{480, 160, 1190},
		c: []float64{13, 23},
	}
	threeVar = problem{
		A: [][]float64{{-1, 1, 0}, {1, 4, 0}, {2, 1, 0}, {3, -4, 0}, {0, 0, 1}},
		b: []float64{5, 45, 27, 24, 4},
		c: []float64{1, 1, 1},
	}
	// cycles under the largest-coefficient rule
	chvatal = problem{
		A: [][]float64{{0.5, -5.5, -2.5, 9}, {0.5, -1.5, -0.5, 1}, {1, 0, 0, 0}},
		b: []float64{0, 0, 1},
		c: []float64{10, -57, -9, -24},
	}
	unbounded4 = problem{
		A: [][]float64{{-2, -9, 1, 9}, {1, 1, -1, -2}},
		b: []float64{3, 2},
		c: []float64{2, 3, -1, -12},
	}
)

func approxSlice(got, want []float64, tol float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			return false
		}
	}
	return true
}

func TestSolveOptimal(t *testing.T) {
	tests := []struct {
		name   string
		p      problem
		value  float64
		primal []float64
		dual   []float64
		pivots int
	}{
		{"scenario a", scenarioA, 10, []float64{2, 2}, []float64{2, 1, 0}, 2},
		{"brewer", brewer, 800, []float64{12, 28}, []float64{1, 2, 0}, 3},
		{"three var", threeVar, 22, []float64{9, 9, 4}, []float64{0, 1.0 / 7, 3.0 / 7, 0, 1}, 4},
		{"chvatal degenerate", chvatal, 1, []float64{1, 0, 1, 0}, []float64{0, 18, 1}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, err := Solve(tt.p.A, tt.p.b, tt.p.c)
			if err != nil {
				t.Fatalf("solve failed: %v", err)
			}
			if math.Abs(sol.Value-tt.value) > 1e-9 {
				t.Errorf("expected value %v, got %v", tt.value, sol.Value)
			}
			if !approxSlice(sol.Primal, tt.primal, 1e-9) {
				t.Errorf("expected primal %v, got %v", tt.primal, sol.Primal)
			}
			if !approxSlice(sol.Dual, tt.dual, 1e-9) {
				t.Errorf("expected dual %v, got %v", tt.dual, sol.Dual)
			}
			if sol.Pivots != tt.pivots {
				t.Errorf("expected %d pivots, got %d", tt.pivots, sol.Pivots)
			}
			if err := sol.Certify(tt.p.A, tt.p.b, tt.p.c); err != nil {
				t.Errorf("certificate failed: %v", err)
			}
		})
	}
}

func TestSolveUnbounded(t *testing.T) {
	tests := []struct {
		name   string
		p      problem
		pivots int
		column int
	}{
		{"scenario b", scenarioB, 0, 0},
		{"four var", unbounded4, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, err := Solve(tt.p.A, tt.p.b, tt.p.c)
			if !errors.Is(err, ErrUnbounded) {
				t.Fatalf("expected ErrUnbounded, got %v", err)
			}
			if sol != nil {
				t.Error("expected no solution for unbounded problem")
			}
			var se *SolveError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SolveError, got %T", err)
			}
			if se.Pivots != tt.pivots || se.Column != tt.column {
				t.Errorf("expected pivots=%d column=%d, got pivots=%d column=%d", tt.pivots, tt.column, se.Pivots, se.Column)
			}
		})
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	tests := []struct {
		name  string
		p     problem
		field string
	}{
		{"negative rhs", problem{[][]float64{{1}}, []float64{-1}, []float64{1}}, "b"},
		{"nan in A", problem{[][]float64{{nan}}, []float64{1}, []float64{1}}, "A"},
		{"inf in A", problem{[][]float64{{inf}}, []float64{1}, []float64{1}}, "A"},
		{"nan in b", problem{[][]float64{{1}}, []float64{nan}, []float64{1}}, "b"},
		{"nan in c", problem{[][]float64{{1}}, []float64{1}, []float64{nan}}, "c"},
		{"row count", problem{[][]float64{{1}, {1}}, []float64{1}, []float64{1}}, "A"},
		{"ragged row", problem{[][]float64{{1, 2}, {1}}, []float64{1, 1}, []float64{1, 1}}, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.p.A, tt.p.b, tt.p.c)
			if s != nil {
				t.Error("expected nil solver")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var ie *InputError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *InputError, got %T", err)
			}
			if ie.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, ie.Field)
			}
			if StatusOf(err) != InvalidInput {
				t.Errorf("expected status invalid_input, got %s", StatusOf(err))
			}
		})
	}
}

func TestNegativeRHSMessage(t *testing.T) {
	_, err := New([][]float64{{1}, {1}}, []float64{1, -2}, []float64{1})
	if err == nil {
		t.Fatal("expected error")
	}
	want := "simplex: invalid input: b[1]: RHS must be nonnegative"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestInitialTableau(t *testing.T) {
	s, err := New(scenarioA.A, scenarioA.b, scenarioA.c)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	m, n := s.Dims()
	if m != 3 || n != 2 {
		t.Fatalf("expected dims 3x2, got %dx%d", m, n)
	}

	tab := s.Tableau()
	r, c := tab.Dims()
	if r != m+1 || c != n+m+1 {
		t.Fatalf("expected tableau %dx%d, got %dx%d", m+1, n+m+1, r, c)
	}

	want := [][]float64{
		{1, 1, 1, 0, 0, 4},
		{1, 0, 0, 1, 0, 2},
		{0, 1, 0, 0, 1, 3},
		{3, 2, 0, 0, 0, 0},
	}
	for i := range want {
		for j := range want[i] {
			if tab.At(i, j) != want[i][j] {
				t.Errorf("tableau[%d][%d] = %v, want %v", i, j, tab.At(i, j), want[i][j])
			}
		}
	}

	for i, col := range s.Basis() {
		if col != n+i {
			t.Errorf("basis[%d] = %d, want %d", i, col, n+i)
		}
	}
	if s.Status() != Running {
		t.Errorf("expected running, got %s", s.Status())
	}
}

func TestTableauCopyIsDetached(t *testing.T) {
	s, _ := New(scenarioA.A, scenarioA.b, scenarioA.c)
	tab := s.Tableau()
	tab.Set(0, 0, 99)
	basis := s.Basis()
	basis[0] = 42

	if s.Tableau().At(0, 0) != 1 {
		t.Error("tableau copy aliases solver state")
	}
	if s.Basis()[0] != 2 {
		t.Error("basis copy aliases solver state")
	}
}

func TestStepMaintainsBasisInvariant(t *testing.T) {
	for _, p := range []problem{scenarioA, brewer, threeVar, chvatal} {
		s, err := New(p.A, p.b, p.c)
		if err != nil {
			t.Fatalf("new failed: %v", err)
		}
		m, _ := s.Dims()
		prev := s.Value()

		for {
			done, err := s.Step()
			if err != nil {
				t.Fatalf("step failed: %v", err)
			}
			if done {
				break
			}

			tab := s.Tableau()
			_, cols := tab.Dims()
			for i, col := range s.Basis() {
				for r := 0; r < m; r++ {
					want := 0.0
					if r == i {
						want = 1
					}
					if math.Abs(tab.At(r, col)-want) > Epsilon {
						t.Errorf("basis column %d row %d = %v, want %v", col, r, tab.At(r, col), want)
					}
				}
				if rhs := tab.At(i, cols-1); rhs < -Epsilon {
					t.Errorf("rhs of row %d went negative: %v", i, rhs)
				}
			}

			if s.Value() < prev-Epsilon {
				t.Errorf("objective decreased from %v to %v", prev, s.Value())
			}
			prev = s.Value()
		}

		if s.Status() != Optimal {
			t.Errorf("expected optimal, got %s", s.Status())
		}
	}
}

func TestNextPredictsStep(t *testing.T) {
	s, _ := New(scenarioA.A, scenarioA.b, scenarioA.c)
	for {
		row, col := s.Next()
		done, err := s.Step()
		if err != nil {
			t.Fatalf("step failed: %v", err)
		}
		if done {
			if col != -1 {
				t.Errorf("expected no pending pivot at optimum, got column %d", col)
			}
			break
		}
		if s.Basis()[row] != col {
			t.Errorf("expected column %d to enter on row %d, basis is %v", col, row, s.Basis())
		}
	}
	if row, col := s.Next(); row != -1 || col != -1 {
		t.Errorf("expected (-1, -1) after optimum, got (%d, %d)", row, col)
	}

	u, _ := New(scenarioB.A, scenarioB.b, scenarioB.c)
	if row, col := u.Next(); row != -1 || col != 0 {
		t.Errorf("expected unbounded column 0 with no row, got (%d, %d)", row, col)
	}
}

func TestStepAfterTerminal(t *testing.T) {
	s, _ := New(scenarioB.A, scenarioB.b, scenarioB.c)
	err := s.Solve()
	if !errors.Is(err, ErrUnbounded) {
		t.Fatalf("expected ErrUnbounded, got %v", err)
	}
	done, err2 := s.Step()
	if !done || !errors.Is(err2, ErrUnbounded) {
		t.Errorf("expected terminal unbounded on repeated step, got done=%v err=%v", done, err2)
	}
	if s.Status() != Unbounded {
		t.Errorf("expected unbounded status, got %s", s.Status())
	}
	if _, err := s.Solution(); !errors.Is(err, ErrUnbounded) {
		t.Errorf("expected solution to report ErrUnbounded, got %v", err)
	}
}

func TestSolutionBeforeSolve(t *testing.T) {
	s, _ := New(scenarioA.A, scenarioA.b, scenarioA.c)
	if _, err := s.Solution(); !errors.Is(err, ErrNotOptimal) {
		t.Errorf("expected ErrNotOptimal, got %v", err)
	}
}

func TestIterationLimit(t *testing.T) {
	s, _ := New(chvatal.A, chvatal.b, chvatal.c, WithMaxPivots(3))
	err := s.Solve()
	if !errors.Is(err, ErrIterationLimit) {
		t.Fatalf("expected ErrIterationLimit, got %v", err)
	}
	if s.Pivots() != 3 {
		t.Errorf("expected 3 pivots, got %d", s.Pivots())
	}
	if s.Status() != IterationLimit {
		t.Errorf("expected iteration_limit, got %s", s.Status())
	}

	// a cap equal to the pivots needed still reaches the optimum
	sol, err := Solve(chvatal.A, chvatal.b, chvatal.c, WithMaxPivots(7))
	if err != nil {
		t.Fatalf("expected optimum within 7 pivots, got %v", err)
	}
	if math.Abs(sol.Value-1) > Epsilon {
		t.Errorf("expected value 1, got %v", sol.Value)
	}
}

func TestObserverReceivesPivots(t *testing.T) {
	var events []Pivot
	obs := ObserverFunc(func(p Pivot) { events = append(events, p) })

	sol, err := Solve(chvatal.A, chvatal.b, chvatal.c, WithObserver(obs))
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if len(events) != sol.Pivots {
		t.Fatalf("expected %d events, got %d", sol.Pivots, len(events))
	}

	degenerate := 0
	for i, ev := range events {
		if ev.Iteration != i+1 {
			t.Errorf("event %d has iteration %d", i, ev.Iteration)
		}
		if ev.Degenerate {
			degenerate++
		}
	}
	if degenerate != 6 {
		t.Errorf("expected 6 degenerate pivots, got %d", degenerate)
	}

	first := events[0]
	if first.Row != 0 || first.Column != 0 || first.Leaving != 4 {
		t.Errorf("expected first pivot (row 0, col 0, leaving 4), got %+v", first)
	}
	if last := events[len(events)-1]; math.Abs(last.Objective-1) > Epsilon {
		t.Errorf("expected final objective 1, got %v", last.Objective)
	}
}

func TestDegenerateTieTakesFirstRow(t *testing.T) {
	// rows 0 and 1 tie at ratio 2 for entering column 0
	A := [][]float64{{1, 1}, {1, 1}, {1, 0}}
	b := []float64{2, 2, 1}
	c := []float64{1, 1}

	var first *Pivot
	obs := ObserverFunc(func(p Pivot) {
		if first == nil {
			first = &p
		}
	})
	sol, err := Solve(A, b, c, WithObserver(obs))
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if first == nil || first.Row != 2 {
		t.Errorf("expected first pivot on row 2 (ratio 1), got %+v", first)
	}
	if math.Abs(sol.Value-2) > Epsilon {
		t.Errorf("expected value 2, got %v", sol.Value)
	}
	if err := sol.Certify(A, b, c); err != nil {
		t.Errorf("certificate failed: %v", err)
	}

	// equal ratios: column 0 sees rows 0 and 1 both at ratio 0
	s, _ := New(chvatal.A, chvatal.b, chvatal.c)
	if _, err := s.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if got := s.Basis()[0]; got != 0 {
		t.Errorf("expected column 0 to enter on row 0, basis is %v", s.Basis())
	}
}

func TestEmptyDimensions(t *testing.T) {
	sol, err := Solve(nil, nil, nil)
	if err != nil {
		t.Fatalf("empty problem failed: %v", err)
	}
	if sol.Value != 0 || len(sol.Primal) != 0 || len(sol.Dual) != 0 {
		t.Errorf("unexpected empty solution %+v", sol)
	}

	_, err = Solve(nil, nil, []float64{1})
	if !errors.Is(err, ErrUnbounded) {
		t.Errorf("expected unconstrained positive cost to be unbounded, got %v", err)
	}

	sol, err = Solve([][]float64{{}, {}}, []float64{1, 2}, nil)
	if err != nil {
		t.Fatalf("no-variable problem failed: %v", err)
	}
	if len(sol.Dual) != 2 {
		t.Errorf("expected 2 duals, got %d", len(sol.Dual))
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{Running, "running"},
		{Optimal, "optimal"},
		{Unbounded, "unbounded"},
		{InvalidInput, "invalid_input"},
		{IterationLimit, "iteration_limit"},
		{Status(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

func TestStatusJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		S Status `json:"s"`
	}{Unbounded})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"s":"unbounded"}` {
		t.Errorf("unexpected json %s", data)
	}

	var back struct {
		S Status `json:"s"`
	}
	if err := json.Unmarshal(data, &back); err != nil || back.S != Unbounded {
		t.Errorf("expected unbounded back, got %v, %v", back.S, err)
	}

	if _, err := ParseStatus("bogus"); err == nil {
		t.Error("expected error for unknown status")
	}
}
