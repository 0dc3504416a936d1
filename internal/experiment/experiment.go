package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/lplab/internal/config"
	"github.com/san-kum/lplab/internal/game"
	"github.com/san-kum/lplab/internal/logging"
	"github.com/san-kum/lplab/internal/metrics"
	"github.com/san-kum/lplab/internal/simplex"
)

var ErrNotSetup = errors.New("experiment: not setup")

type Config struct {
	Name      string
	Kind      string
	A         [][]float64
	B         []float64
	C         []float64
	Payoff    [][]float64
	MaxPivots int
	Certify   bool
	Logger    *slog.Logger
}

// FromConfig converts a problem file into an experiment configuration.
func FromConfig(cfg *config.Config) Config {
	return Config{
		Name:      cfg.Name,
		Kind:      cfg.Kind,
		A:         cfg.A,
		B:         cfg.B,
		C:         cfg.C,
		Payoff:    cfg.Payoff,
		MaxPivots: cfg.MaxPivots,
	}
}

// Result is the outcome of one run. Unbounded and pivot-limit outcomes are
// reported through Status and Err rather than as a Run error.
type Result struct {
	Name        string
	Kind        string
	M, N        int
	Status      simplex.Status
	Solution    *simplex.Solution
	Equilibrium *game.Equilibrium
	Trace       []simplex.Pivot
	Metrics     map[string]float64
	Elapsed     time.Duration
	Err         error
}

// Value is the optimal objective, or the game value for games.
func (r *Result) Value() float64 {
	switch {
	case r.Equilibrium != nil:
		return r.Equilibrium.Value
	case r.Solution != nil:
		return r.Solution.Value
	default:
		return 0
	}
}

type Experiment struct {
	cfg     Config
	metrics []metrics.Metric
	ready   bool
}

func New(cfg Config) *Experiment {
	if cfg.Kind == "" {
		cfg.Kind = config.KindLP
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(ms ...metrics.Metric) error {
	for _, m := range ms {
		m.Reset()
	}
	e.metrics = ms
	e.ready = true
	return nil
}

// Run pivots to completion, checking ctx between pivots. Invalid input
// and cancellation are returned as errors.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if !e.ready {
		return nil, ErrNotSetup
	}

	A, b, c := e.cfg.A, e.cfg.B, e.cfg.C
	var shift float64
	if e.cfg.Kind == config.KindGame {
		var err error
		A, b, c, shift, err = game.Reduce(e.cfg.Payoff)
		if err != nil {
			return nil, err
		}
	}

	result := &Result{
		Name: e.cfg.Name,
		Kind: e.cfg.Kind,
		M:    len(b),
		N:    len(c),
	}
	if e.cfg.Kind == config.KindGame {
		result.M, result.N = len(e.cfg.Payoff), len(e.cfg.Payoff[0])
	}

	trace := simplex.ObserverFunc(func(p simplex.Pivot) {
		result.Trace = append(result.Trace, p)
	})
	s, err := simplex.New(A, b, c,
		simplex.WithMaxPivots(e.cfg.MaxPivots),
		simplex.WithLogger(e.cfg.Logger),
		simplex.WithObserver(trace),
		simplex.WithObserver(metrics.Observer(e.metrics...)),
	)
	if err != nil {
		return nil, err
	}

	log := e.cfg.Logger.With("problem", e.cfg.Name, "kind", e.cfg.Kind)
	log.Info("solve started", "m", result.M, "n", result.N)
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			result.Status = s.Status()
			result.Elapsed = time.Since(start)
			result.Metrics = metrics.Snapshot(e.metrics...)
			return result, ctx.Err()
		default:
		}
		if done, _ := s.Step(); done {
			break
		}
	}

	result.Elapsed = time.Since(start)
	result.Status = s.Status()
	result.Err = s.Err()
	result.Metrics = metrics.Snapshot(e.metrics...)

	if result.Status != simplex.Optimal {
		log.Info("solve stopped", "status", result.Status, "pivots", s.Pivots(), "err", result.Err)
		return result, nil
	}

	sol, err := s.Solution()
	if err != nil {
		return nil, err
	}
	result.Solution = sol

	if e.cfg.Kind == config.KindGame {
		eq, err := game.FromSolution(sol, shift)
		if err != nil {
			return nil, err
		}
		result.Equilibrium = eq
	}

	if e.cfg.Certify {
		if err := e.certify(result, A, b, c); err != nil {
			return result, fmt.Errorf("experiment %s: %w", e.cfg.Name, err)
		}
	}

	log.Info("solve finished", "status", result.Status, "value", result.Value(),
		"pivots", sol.Pivots, "elapsed", result.Elapsed)
	return result, nil
}

func (e *Experiment) certify(r *Result, A [][]float64, b, c []float64) error {
	if err := r.Solution.Certify(A, b, c); err != nil {
		return err
	}
	if r.Equilibrium != nil {
		return r.Equilibrium.Check(e.cfg.Payoff)
	}
	return nil
}

func (e *Experiment) Metrics() []metrics.Metric {
	return e.metrics
}
