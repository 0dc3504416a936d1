package simplex

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// tableau is the (m+1)×(n+m+1) working matrix plus its basis. Rows 0..m-1
// are constraints, row m is the objective, the last column holds the
// right-hand side. Column basis[i] is the i-th unit vector among the
// constraint rows after every pivot.
type tableau struct {
	t     *mat.Dense
	basis []int
	m, n  int
}

func validate(A [][]float64, b, c []float64) error {
	m, n := len(b), len(c)
	if len(A) != m {
		return &InputError{Field: "A", Row: -1, Col: -1, Reason: "row count does not match len(b)"}
	}
	for i, row := range A {
		if len(row) != n {
			return &InputError{Field: "A", Row: i, Col: -1, Reason: "column count does not match len(c)"}
		}
		for j, v := range row {
			if !finite(v) {
				return &InputError{Field: "A", Row: i, Col: j, Reason: "value is not finite"}
			}
		}
	}
	for j, v := range c {
		if !finite(v) {
			return &InputError{Field: "c", Row: j, Col: -1, Reason: "value is not finite"}
		}
	}
	for i, v := range b {
		if !finite(v) {
			return &InputError{Field: "b", Row: i, Col: -1, Reason: "value is not finite"}
		}
		if v < 0 {
			return &InputError{Field: "b", Row: i, Col: -1, Reason: "RHS must be nonnegative"}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// newTableau assumes validated input.
func newTableau(A [][]float64, b, c []float64) *tableau {
	m, n := len(b), len(c)
	tb := &tableau{
		t:     mat.NewDense(m+1, n+m+1, nil),
		basis: make([]int, m),
		m:     m,
		n:     n,
	}
	rhs := tb.rhs()
	for i := 0; i < m; i++ {
		row := tb.t.RawRowView(i)
		copy(row[:n], A[i])
		row[n+i] = 1
		row[rhs] = b[i]
		tb.basis[i] = n + i
	}
	copy(tb.t.RawRowView(m)[:n], c)
	return tb
}

func (tb *tableau) rhs() int { return tb.n + tb.m }

// bland returns the lowest-index column with a strictly positive
// objective-row entry, or -1 when the current basis is optimal.
func (tb *tableau) bland() int {
	obj := tb.t.RawRowView(tb.m)
	for j := 0; j < tb.n+tb.m; j++ {
		if obj[j] > 0 {
			return j
		}
	}
	return -1
}

// minRatio returns the leaving row for entering column q, or -1 when no
// row has a pivot entry above Epsilon. Ties keep the lowest row index.
func (tb *tableau) minRatio(q int) int {
	rhs := tb.rhs()
	p := -1
	for i := 0; i < tb.m; i++ {
		row := tb.t.RawRowView(i)
		if row[q] <= Epsilon {
			continue
		}
		if p == -1 {
			p = i
			continue
		}
		prow := tb.t.RawRowView(p)
		if row[rhs]/row[q] < prow[rhs]/prow[q] {
			p = i
		}
	}
	return p
}

func (tb *tableau) ratio(p, q int) float64 {
	row := tb.t.RawRowView(p)
	return row[tb.rhs()] / row[q]
}

// pivot performs Gauss-Jordan elimination on (p, q), objective row included.
func (tb *tableau) pivot(p, q int) {
	pr := tb.t.RawRowView(p)
	for i := 0; i <= tb.m; i++ {
		if i == p {
			continue
		}
		row := tb.t.RawRowView(i)
		for j := range row {
			if j != q {
				row[j] -= pr[j] * row[q] / pr[q]
			}
		}
		row[q] = 0
	}
	for j := range pr {
		if j != q {
			pr[j] /= pr[q]
		}
	}
	pr[q] = 1
	tb.basis[p] = q
}

func (tb *tableau) value() float64 {
	return negate(tb.t.At(tb.m, tb.rhs()))
}

func (tb *tableau) primal() []float64 {
	x := make([]float64, tb.n)
	rhs := tb.rhs()
	for i, col := range tb.basis {
		if col < tb.n {
			x[col] = tb.t.At(i, rhs)
		}
	}
	return x
}

func (tb *tableau) dual() []float64 {
	y := make([]float64, tb.m)
	obj := tb.t.RawRowView(tb.m)
	for i := range y {
		y[i] = negate(obj[tb.n+i])
	}
	return y
}

// negate avoids reporting -0 for a zero entry.
func negate(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}
