package simplex

import (
	"errors"
	"fmt"
)

// Domain errors for solver operations.
var (
	// ErrInvalidInput indicates a malformed problem: shape mismatch, NaN/Inf
	// entries or a negative right-hand side.
	ErrInvalidInput = errors.New("simplex: invalid input")

	// ErrUnbounded indicates the objective can increase without limit.
	ErrUnbounded = errors.New("simplex: problem is unbounded")

	// ErrIterationLimit indicates the configured pivot cap was reached.
	ErrIterationLimit = errors.New("simplex: iteration limit exceeded")

	// ErrNotOptimal indicates a solution was requested before the solver
	// reached the optimal state.
	ErrNotOptimal = errors.New("simplex: solver has not reached an optimal solution")

	// ErrCertificate indicates a solution failed an optimality check.
	ErrCertificate = errors.New("simplex: optimality certificate violated")
)

// InputError describes the entry of A, b or c that was rejected.
type InputError struct {
	Field  string
	Row    int
	Col    int
	Reason string
}

func (e *InputError) Error() string {
	switch {
	case e.Row < 0 && e.Col < 0:
		return fmt.Sprintf("%v: %s: %s", ErrInvalidInput, e.Field, e.Reason)
	case e.Col < 0:
		return fmt.Sprintf("%v: %s[%d]: %s", ErrInvalidInput, e.Field, e.Row, e.Reason)
	default:
		return fmt.Sprintf("%v: %s[%d][%d]: %s", ErrInvalidInput, e.Field, e.Row, e.Col, e.Reason)
	}
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// SolveError wraps a terminal solve failure with the pivot context.
type SolveError struct {
	Pivots  int
	Column  int
	Wrapped error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%v (after %d pivots, entering column %d)", e.Wrapped, e.Pivots, e.Column)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}

// CertificateError names the optimality check a solution failed.
type CertificateError struct {
	Check string
	Index int
	Got   float64
	Want  float64
}

func (e *CertificateError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s: got %g, want %g", ErrCertificate, e.Check, e.Got, e.Want)
	}
	return fmt.Sprintf("%v: %s[%d]: got %g, want %g", ErrCertificate, e.Check, e.Index, e.Got, e.Want)
}

func (e *CertificateError) Unwrap() error {
	return ErrCertificate
}
