package simplex

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/lplab/internal/logging"
)

// Epsilon is the tolerance shared by the ratio test and every
// certification check.
const Epsilon = 1e-10

// Status is the solver state machine position.
type Status int

const (
	Running Status = iota
	Optimal
	Unbounded
	InvalidInput
	IterationLimit
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Optimal:
		return "optimal"
	case Unbounded:
		return "unbounded"
	case InvalidInput:
		return "invalid_input"
	case IterationLimit:
		return "iteration_limit"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further pivots can happen.
func (s Status) Terminal() bool { return s != Running }

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(name string) (Status, error) {
	for s := Running; s <= IterationLimit; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return Running, fmt.Errorf("simplex: unknown status %q", name)
}

// Pivot describes one completed pivot.
type Pivot struct {
	Iteration  int     `json:"iteration"`
	Row        int     `json:"row"`
	Column     int     `json:"column"`
	Leaving    int     `json:"leaving"`
	Ratio      float64 `json:"ratio"`
	Objective  float64 `json:"objective"`
	Degenerate bool    `json:"degenerate"`
}

// Observer receives every pivot the solver performs.
type Observer interface {
	OnPivot(p Pivot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(p Pivot)

func (f ObserverFunc) OnPivot(p Pivot) { f(p) }

type options struct {
	maxPivots int
	observers []Observer
	logger    *slog.Logger
}

// Option configures a Solver.
type Option func(*options)

// WithMaxPivots caps the number of pivots. Zero means unlimited, which is
// the reference behaviour; Bland's rule guarantees termination but not a
// polynomial bound, so callers solving untrusted input should set a cap.
func WithMaxPivots(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPivots = n
		}
	}
}

// WithObserver registers an observer for pivot events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithLogger sets the logger used for pivot diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
