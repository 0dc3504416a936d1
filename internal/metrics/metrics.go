// Package metrics summarises a solve from its stream of pivot events.
// Every metric is a simplex.Observer and can be passed to WithObserver.
package metrics

import (
	"github.com/san-kum/lplab/internal/simplex"
)

type Metric interface {
	Name() string
	Observe(p simplex.Pivot)
	Value() float64
	Reset()
}

// Observer adapts a set of metrics to a single simplex.Observer.
func Observer(ms ...Metric) simplex.Observer {
	return simplex.ObserverFunc(func(p simplex.Pivot) {
		for _, m := range ms {
			m.Observe(p)
		}
	})
}

// Snapshot collects the current value of each metric by name.
func Snapshot(ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Defaults returns a fresh instance of every built-in metric.
func Defaults() []Metric {
	return []Metric{
		NewPivotCount(),
		NewDegenerate(),
		NewObjectiveGain(),
		NewDistinctEntering(),
	}
}
