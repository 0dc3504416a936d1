package game

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/lplab/internal/simplex"
)

// Tolerance bounds the error accepted by Check. It is derived from
// simplex.Epsilon and scaled by 10 because strategies and the value are
// rescaled by 1/Σx after the solve.
const Tolerance = 10 * simplex.Epsilon

// ErrNotEquilibrium indicates a strategy pair failed the Nash check.
var ErrNotEquilibrium = errors.New("game: strategies are not an equilibrium")

// Equilibrium is the mixed-strategy solution of a zero-sum game. The row
// player maximises the payoff, the column player minimises it.
type Equilibrium struct {
	Value  float64   `json:"value"`
	Row    []float64 `json:"row"`
	Column []float64 `json:"column"`
	Shift  float64   `json:"shift"`
	Pivots int       `json:"pivots"`
}

// Reduce returns the LP whose optimum encodes the game, together with the
// constant added to every payoff to make all entries strictly positive.
func Reduce(payoff [][]float64) (A [][]float64, b, c []float64, shift float64, err error) {
	if err := validate(payoff); err != nil {
		return nil, nil, nil, 0, err
	}

	low := math.Inf(1)
	for _, row := range payoff {
		low = math.Min(low, floats.Min(row))
	}
	if low <= 0 {
		shift = 1 - low
	}

	m, n := len(payoff), len(payoff[0])
	A = make([][]float64, m)
	for i, row := range payoff {
		A[i] = make([]float64, n)
		for j, v := range row {
			A[i][j] = v + shift
		}
	}
	b = make([]float64, m)
	floats.AddConst(1, b)
	c = make([]float64, n)
	floats.AddConst(1, c)
	return A, b, c, shift, nil
}

// Solve finds optimal mixed strategies and the value of the game.
func Solve(payoff [][]float64, opts ...simplex.Option) (*Equilibrium, error) {
	A, b, c, shift, err := Reduce(payoff)
	if err != nil {
		return nil, err
	}

	sol, err := simplex.Solve(A, b, c, opts...)
	if err != nil {
		return nil, fmt.Errorf("game: solve reduced lp: %w", err)
	}
	return FromSolution(sol, shift)
}

// FromSolution recovers the equilibrium from an optimal solution of the LP
// built by Reduce.
func FromSolution(sol *simplex.Solution, shift float64) (*Equilibrium, error) {
	s := floats.Sum(sol.Primal)
	if s <= 0 {
		return nil, fmt.Errorf("game: degenerate reduction: %w", simplex.ErrNotOptimal)
	}

	row := append([]float64(nil), sol.Dual...)
	floats.Scale(1/s, row)
	col := append([]float64(nil), sol.Primal...)
	floats.Scale(1/s, col)

	return &Equilibrium{
		Value:  1/s - shift,
		Row:    row,
		Column: col,
		Shift:  shift,
		Pivots: sol.Pivots,
	}, nil
}

// Check verifies that both strategies are probability vectors and that
// neither player can improve on Value by deviating to a pure strategy.
func (e *Equilibrium) Check(payoff [][]float64) error {
	if err := validate(payoff); err != nil {
		return err
	}
	m, n := len(payoff), len(payoff[0])
	if len(e.Row) != m || len(e.Column) != n {
		return fmt.Errorf("%w: strategy sizes %dx%d for %dx%d payoff", ErrNotEquilibrium, len(e.Row), len(e.Column), m, n)
	}
	if err := distribution("row", e.Row); err != nil {
		return err
	}
	if err := distribution("column", e.Column); err != nil {
		return err
	}

	P := mat.NewDense(m, n, nil)
	for i, r := range payoff {
		P.SetRow(i, r)
	}

	// each column the opponent could play against the row mix
	var guard mat.VecDense
	guard.MulVec(P.T(), mat.NewVecDense(m, e.Row))
	for j := 0; j < n; j++ {
		if v := guard.AtVec(j); v < e.Value-Tolerance {
			return fmt.Errorf("%w: column %d holds row player to %g < %g", ErrNotEquilibrium, j, v, e.Value)
		}
	}

	var exposure mat.VecDense
	exposure.MulVec(P, mat.NewVecDense(n, e.Column))
	for i := 0; i < m; i++ {
		if v := exposure.AtVec(i); v > e.Value+Tolerance {
			return fmt.Errorf("%w: row %d earns %g > %g", ErrNotEquilibrium, i, v, e.Value)
		}
	}
	return nil
}

func distribution(who string, p []float64) error {
	for i, v := range p {
		if v < -Tolerance {
			return fmt.Errorf("%w: %s[%d] = %g is negative", ErrNotEquilibrium, who, i, v)
		}
	}
	if s := floats.Sum(p); math.Abs(s-1) > Tolerance {
		return fmt.Errorf("%w: %s strategy sums to %g", ErrNotEquilibrium, who, s)
	}
	return nil
}

func validate(payoff [][]float64) error {
	if len(payoff) == 0 || len(payoff[0]) == 0 {
		return &simplex.InputError{Field: "payoff", Row: -1, Col: -1, Reason: "matrix is empty"}
	}
	n := len(payoff[0])
	for i, row := range payoff {
		if len(row) != n {
			return &simplex.InputError{Field: "payoff", Row: i, Col: -1, Reason: "row length differs from row 0"}
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &simplex.InputError{Field: "payoff", Row: i, Col: j, Reason: "value is not finite"}
			}
		}
	}
	return nil
}
