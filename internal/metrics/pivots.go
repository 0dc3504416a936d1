package metrics

import (
	"github.com/san-kum/lplab/internal/simplex"
)

type PivotCount struct {
	name  string
	count int
}

func NewPivotCount() *PivotCount {
	return &PivotCount{name: "pivots"}
}

func (m *PivotCount) Name() string            { return m.name }
func (m *PivotCount) Observe(p simplex.Pivot) { m.count++ }
func (m *PivotCount) OnPivot(p simplex.Pivot) { m.Observe(p) }
func (m *PivotCount) Value() float64          { return float64(m.count) }
func (m *PivotCount) Reset()                  { m.count = 0 }

// Degenerate counts pivots with a zero step length, where the basis
// changes but the vertex does not.
type Degenerate struct {
	name       string
	degenerate int
	samples    int
}

func NewDegenerate() *Degenerate {
	return &Degenerate{name: "degenerate_pivots"}
}

func (m *Degenerate) Name() string { return m.name }

func (m *Degenerate) Observe(p simplex.Pivot) {
	m.samples++
	if p.Degenerate {
		m.degenerate++
	}
}

func (m *Degenerate) OnPivot(p simplex.Pivot) { m.Observe(p) }

func (m *Degenerate) Value() float64 { return float64(m.degenerate) }

// Fraction returns the share of pivots that were degenerate.
func (m *Degenerate) Fraction() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.degenerate) / float64(m.samples)
}

func (m *Degenerate) Reset() {
	m.degenerate = 0
	m.samples = 0
}
