// Package batch solves many independent problems concurrently. Each
// problem gets its own solver and metrics, so no state is shared between
// workers.
package batch

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/lplab/internal/experiment"
	"github.com/san-kum/lplab/internal/logging"
	"github.com/san-kum/lplab/internal/metrics"
	"github.com/san-kum/lplab/internal/simplex"
)

type Options struct {
	Workers int
	Logger  *slog.Logger
	// Metrics builds a fresh metric set per problem; nil uses the defaults.
	Metrics func() []metrics.Metric
}

// Run solves every configuration and returns the results in input order.
// A problem that fails validation yields a result with status
// invalid_input instead of aborting the batch; only cancellation of ctx
// stops the run early.
func Run(ctx context.Context, cfgs []experiment.Config, opts Options) ([]*experiment.Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	newMetrics := opts.Metrics
	if newMetrics == nil {
		newMetrics = metrics.Defaults
	}

	results := make([]*experiment.Result, len(cfgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, cfg := range cfgs {
		if gctx.Err() != nil {
			break
		}
		i, cfg := i, cfg
		g.Go(func() error {
			if cfg.Logger == nil {
				cfg.Logger = log
			}
			exp := experiment.New(cfg)
			if err := exp.Setup(newMetrics()...); err != nil {
				return err
			}

			res, err := exp.Run(gctx)
			switch {
			case err == nil:
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			case res != nil:
				// solved, but the certificate check failed
				log.Warn("certificate failed", "problem", cfg.Name, "err", err)
				res.Err = err
			default:
				log.Warn("problem rejected", "problem", cfg.Name, "err", err)
				res = &experiment.Result{
					Name:   cfg.Name,
					Kind:   cfg.Kind,
					Status: simplex.StatusOf(err),
					Err:    err,
				}
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// Summary counts results by status name.
func Summary(results []*experiment.Result) map[string]int {
	out := make(map[string]int)
	for _, r := range results {
		if r == nil {
			continue
		}
		out[r.Status.String()]++
	}
	return out
}
