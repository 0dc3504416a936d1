package metrics

import (
	"github.com/san-kum/lplab/internal/simplex"
)

// ObjectiveGain is the objective value after the last pivot. The solve
// starts at the origin where the objective is zero, so this is also the
// total improvement.
type ObjectiveGain struct {
	name    string
	last    float64
	maxStep float64
}

func NewObjectiveGain() *ObjectiveGain {
	return &ObjectiveGain{name: "objective_gain"}
}

func (m *ObjectiveGain) Name() string { return m.name }

func (m *ObjectiveGain) Observe(p simplex.Pivot) {
	if step := p.Objective - m.last; step > m.maxStep {
		m.maxStep = step
	}
	m.last = p.Objective
}

func (m *ObjectiveGain) OnPivot(p simplex.Pivot) { m.Observe(p) }

func (m *ObjectiveGain) Value() float64 { return m.last }

// MaxStep is the largest single-pivot improvement seen.
func (m *ObjectiveGain) MaxStep() float64 { return m.maxStep }

func (m *ObjectiveGain) Reset() {
	m.last = 0
	m.maxStep = 0
}

// DistinctEntering counts how many different columns entered the basis.
type DistinctEntering struct {
	name string
	seen map[int]struct{}
}

func NewDistinctEntering() *DistinctEntering {
	return &DistinctEntering{
		name: "distinct_entering",
		seen: make(map[int]struct{}),
	}
}

func (m *DistinctEntering) Name() string { return m.name }

func (m *DistinctEntering) Observe(p simplex.Pivot) {
	m.seen[p.Column] = struct{}{}
}

func (m *DistinctEntering) OnPivot(p simplex.Pivot) { m.Observe(p) }

func (m *DistinctEntering) Value() float64 { return float64(len(m.seen)) }

func (m *DistinctEntering) Reset() {
	m.seen = make(map[int]struct{})
}
