package simplex

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Solver owns one tableau and advances it with Bland's rule.
type Solver struct {
	tab    *tableau
	status Status
	pivots int
	err    error
	opts   options
}

// New validates the problem and builds the initial tableau with every
// slack variable basic. The solve itself starts with Step or Solve.
func New(A [][]float64, b, c []float64, opts ...Option) (*Solver, error) {
	if err := validate(A, b, c); err != nil {
		return nil, err
	}
	s := &Solver{
		tab:    newTableau(A, b, c),
		status: Running,
		opts:   buildOptions(opts),
	}
	s.opts.logger.Debug("tableau built", "constraints", s.tab.m, "variables", s.tab.n)
	return s, nil
}

// Step performs one iteration of the state machine: entering selection,
// leaving selection, pivot. It reports done once the solver is terminal;
// a terminal failure is returned on every subsequent call.
func (s *Solver) Step() (bool, error) {
	if s.status.Terminal() {
		return true, s.err
	}

	q := s.tab.bland()
	if q < 0 {
		s.status = Optimal
		s.opts.logger.Debug("optimal", "pivots", s.pivots, "value", s.tab.value())
		return true, nil
	}

	if s.opts.maxPivots > 0 && s.pivots >= s.opts.maxPivots {
		s.status = IterationLimit
		s.err = &SolveError{Pivots: s.pivots, Column: q, Wrapped: ErrIterationLimit}
		s.opts.logger.Warn("pivot limit reached", "limit", s.opts.maxPivots)
		return true, s.err
	}

	p := s.tab.minRatio(q)
	if p < 0 {
		s.status = Unbounded
		s.err = &SolveError{Pivots: s.pivots, Column: q, Wrapped: ErrUnbounded}
		s.opts.logger.Debug("unbounded", "pivots", s.pivots, "column", q)
		return true, s.err
	}

	ratio := s.tab.ratio(p, q)
	leaving := s.tab.basis[p]
	s.tab.pivot(p, q)
	s.pivots++

	ev := Pivot{
		Iteration:  s.pivots,
		Row:        p,
		Column:     q,
		Leaving:    leaving,
		Ratio:      ratio,
		Objective:  s.tab.value(),
		Degenerate: ratio <= Epsilon,
	}
	s.opts.logger.Debug("pivot",
		"iteration", ev.Iteration, "row", p, "column", q,
		"leaving", leaving, "ratio", ratio, "objective", ev.Objective)
	for _, obs := range s.opts.observers {
		obs.OnPivot(ev)
	}
	return false, nil
}

// Solve pivots until the solver is optimal or fails.
func (s *Solver) Solve() error {
	for {
		done, err := s.Step()
		if done {
			return err
		}
	}
}

// Next reports the pivot the next Step would perform. col is -1 when the
// solver is terminal or the basis is optimal; row is -1 when col has no
// eligible leaving row.
func (s *Solver) Next() (row, col int) {
	if s.status.Terminal() {
		return -1, -1
	}
	q := s.tab.bland()
	if q < 0 {
		return -1, -1
	}
	return s.tab.minRatio(q), q
}

// Value returns the current objective value.
func (s *Solver) Value() float64 { return s.tab.value() }

// Primal returns the current decision-variable values; nonbasic variables
// are zero.
func (s *Solver) Primal() []float64 { return s.tab.primal() }

// Dual returns the shadow price of each constraint.
func (s *Solver) Dual() []float64 { return s.tab.dual() }

func (s *Solver) Status() Status { return s.status }
func (s *Solver) Pivots() int    { return s.pivots }
func (s *Solver) Err() error     { return s.err }

// Dims returns the number of constraints and decision variables.
func (s *Solver) Dims() (m, n int) { return s.tab.m, s.tab.n }

// Basis returns a copy of the basic column for each constraint row.
func (s *Solver) Basis() []int {
	out := make([]int, len(s.tab.basis))
	copy(out, s.tab.basis)
	return out
}

// Tableau returns a copy of the working matrix.
func (s *Solver) Tableau() *mat.Dense {
	return mat.DenseCopyOf(s.tab.t)
}

// Solution returns a detached snapshot of an optimal solve.
func (s *Solver) Solution() (*Solution, error) {
	if s.status != Optimal {
		if s.err != nil {
			return nil, s.err
		}
		return nil, ErrNotOptimal
	}
	return &Solution{
		Value:  s.Value(),
		Primal: s.Primal(),
		Dual:   s.Dual(),
		Basis:  s.Basis(),
		Pivots: s.pivots,
	}, nil
}

// Solution is an optimal primal/dual pair.
type Solution struct {
	Value  float64   `json:"value"`
	Primal []float64 `json:"primal"`
	Dual   []float64 `json:"dual"`
	Basis  []int     `json:"basis"`
	Pivots int       `json:"pivots"`
}

// Solve builds a solver, runs it to completion and returns the optimum.
func Solve(A [][]float64, b, c []float64, opts ...Option) (*Solution, error) {
	s, err := New(A, b, c, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Solve(); err != nil {
		return nil, err
	}
	return s.Solution()
}

// StatusOf maps an error returned by this package to the terminal status
// it represents. A nil error maps to Optimal.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return Optimal
	case errors.Is(err, ErrInvalidInput):
		return InvalidInput
	case errors.Is(err, ErrUnbounded):
		return Unbounded
	case errors.Is(err, ErrIterationLimit):
		return IterationLimit
	default:
		return Running
	}
}
