package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/lplab/internal/config"
	"github.com/san-kum/lplab/internal/metrics"
)

type Registry struct {
	problems map[string]func() *config.Config
	metrics  map[string]func() metrics.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		problems: make(map[string]func() *config.Config),
		metrics:  make(map[string]func() metrics.Metric),
	}

	for kind := range config.Presets {
		for _, name := range config.ListPresets(kind) {
			kind, name := kind, name
			r.problems[name] = func() *config.Config { return config.GetPreset(kind, name) }
		}
	}

	r.metrics["pivots"] = func() metrics.Metric { return metrics.NewPivotCount() }
	r.metrics["degenerate_pivots"] = func() metrics.Metric { return metrics.NewDegenerate() }
	r.metrics["objective_gain"] = func() metrics.Metric { return metrics.NewObjectiveGain() }
	r.metrics["distinct_entering"] = func() metrics.Metric { return metrics.NewDistinctEntering() }

	return r
}

// RegisterProblem adds or replaces a named problem factory.
func (r *Registry) RegisterProblem(name string, fn func() *config.Config) {
	r.problems[name] = fn
}

func (r *Registry) GetProblem(name string) (*config.Config, error) {
	fn, ok := r.problems[name]
	if !ok {
		return nil, fmt.Errorf("unknown problem: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetMetric(name string) (metrics.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListProblems() []string {
	return sortedKeys(r.problems)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []metrics.Metric {
	names := r.ListMetrics()
	out := make([]metrics.Metric, 0, len(names))
	for _, name := range names {
		out = append(out, r.metrics[name]())
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
