package simplex

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Certify checks that sol is an optimal solution of the problem (A, b, c):
//
//   - primal feasibility: x ≥ -ε and A·x ≤ b+ε
//   - dual feasibility:   y ≥ -ε and Aᵗ·y ≥ c-ε
//   - strong duality:     |v - c·x| ≤ ε and |v - y·b| ≤ ε
//
// The first violated check is returned as a *CertificateError.
func Certify(A [][]float64, b, c []float64, sol *Solution) error {
	if sol == nil {
		return ErrNotOptimal
	}
	if err := validate(A, b, c); err != nil {
		return err
	}
	if len(sol.Primal) != len(c) {
		return &InputError{Field: "primal", Row: -1, Col: -1, Reason: "length does not match len(c)"}
	}
	if len(sol.Dual) != len(b) {
		return &InputError{Field: "dual", Row: -1, Col: -1, Reason: "length does not match len(b)"}
	}

	x, y := sol.Primal, sol.Dual
	for j, v := range x {
		if v < -Epsilon {
			return &CertificateError{Check: "primal x >= 0", Index: j, Got: v, Want: 0}
		}
	}
	ax := mulVec(A, len(b), len(c), x, false)
	for i, v := range ax {
		if v > b[i]+Epsilon {
			return &CertificateError{Check: "primal A·x <= b", Index: i, Got: v, Want: b[i]}
		}
	}

	for i, v := range y {
		if v < -Epsilon {
			return &CertificateError{Check: "dual y >= 0", Index: i, Got: v, Want: 0}
		}
	}
	aty := mulVec(A, len(b), len(c), y, true)
	for j, v := range aty {
		if v < c[j]-Epsilon {
			return &CertificateError{Check: "dual Aᵗ·y >= c", Index: j, Got: v, Want: c[j]}
		}
	}

	if cx := floats.Dot(c, x); math.Abs(sol.Value-cx) > Epsilon {
		return &CertificateError{Check: "strong duality c·x", Index: -1, Got: cx, Want: sol.Value}
	}
	if yb := floats.Dot(y, b); math.Abs(sol.Value-yb) > Epsilon {
		return &CertificateError{Check: "strong duality y·b", Index: -1, Got: yb, Want: sol.Value}
	}
	return nil
}

// Certify checks the solution against the problem it claims to solve.
func (sol *Solution) Certify(A [][]float64, b, c []float64) error {
	return Certify(A, b, c, sol)
}

// mulVec returns A·v, or Aᵗ·v when trans is set, for an m×n matrix A.
func mulVec(A [][]float64, m, n int, v []float64, trans bool) []float64 {
	rows := m
	if trans {
		rows = n
	}
	out := make([]float64, rows)
	if m == 0 || n == 0 {
		return out
	}

	a := mat.NewDense(m, n, nil)
	for i, row := range A {
		a.SetRow(i, row)
	}
	var res mat.VecDense
	if trans {
		res.MulVec(a.T(), mat.NewVecDense(m, v))
	} else {
		res.MulVec(a, mat.NewVecDense(n, v))
	}
	for i := range out {
		out[i] = res.AtVec(i)
	}
	return out
}
