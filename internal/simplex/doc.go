// Package simplex solves linear programs in the canonical maximisation form
//
//	maximize   c·x
//	subject to A·x ≤ b
//	           x ≥ 0
//
// with a dense tableau and Bland's anticycling rule. Every b[i] must be
// nonnegative so that the all-slack origin is an initial basic feasible
// solution; there is no Phase-1 procedure.
//
// The package exposes:
//
//   - [Solver]: owns one tableau and basis and advances them pivot by pivot
//   - [Solution]: a detached optimal snapshot (value, primal, dual)
//   - [Certify]: the primal/dual optimality certificate
//   - [Observer]: hook receiving every [Pivot] event
//
// # Example
//
//	sol, err := simplex.Solve(A, b, c, simplex.WithMaxPivots(10000))
//	if errors.Is(err, simplex.ErrUnbounded) {
//		// objective grows without limit
//	}
//	fmt.Println(sol.Value, sol.Primal, sol.Dual)
//
// # Tolerance
//
// A single constant, [Epsilon], is used for ratio-test eligibility and for
// every certification predicate.
//
// # Thread Safety
//
// A Solver is NOT safe for concurrent use. Independent problems can be
// solved in parallel by separate Solver instances without coordination.
package simplex
