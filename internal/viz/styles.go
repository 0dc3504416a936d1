package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/lplab/internal/simplex"
)

// Styles is the set of lipgloss styles derived from a Theme.
type Styles struct {
	Theme    Theme
	Header   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Basis    lipgloss.Style
	Pivot    lipgloss.Style
	Entering lipgloss.Style
	Muted    lipgloss.Style
	Panel    lipgloss.Style
	Help     lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
}

func NewStyles(t Theme) Styles {
	s := Styles{Theme: t}
	s.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Border)
	s.Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	s.Label = lipgloss.NewStyle().Foreground(t.Muted).Width(12)
	s.Value = lipgloss.NewStyle().Foreground(t.Text)
	s.Basis = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	s.Pivot = lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true)
	s.Entering = lipgloss.NewStyle().Foreground(t.Accent)
	s.Muted = lipgloss.NewStyle().Foreground(t.Muted)
	s.Help = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	s.Success = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	s.Warning = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	s.Error = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	return s
}

// StatusBadge renders a solver status in its theme colour.
func (s Styles) StatusBadge(st simplex.Status) string {
	label := strings.ToUpper(st.String())
	switch st {
	case simplex.Optimal:
		return s.Success.Render(label)
	case simplex.Running:
		return s.Value.Render(label)
	case simplex.IterationLimit:
		return s.Warning.Render(label)
	default:
		return s.Error.Render(label)
	}
}

// Sparkline renders values as a row of block characters, sampled to width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / span
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}
