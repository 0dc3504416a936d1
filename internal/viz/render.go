package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/lplab/internal/game"
	"github.com/san-kum/lplab/internal/simplex"
)

const cellWidth = 9

// VarName labels tableau column j for a problem with n decision variables:
// x1..xn, then slacks s1..sm.
func VarName(j, n int) string {
	if j < n {
		return fmt.Sprintf("x%d", j+1)
	}
	return fmt.Sprintf("s%d", j-n+1)
}

func formatNum(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	s := fmt.Sprintf("%.4g", v)
	if len(s) > cellWidth-1 {
		s = fmt.Sprintf("%.2e", v)
	}
	return s
}

// Highlight marks the pivot element of the next step, if any.
type Highlight struct {
	Row, Column int
}

// RenderTableau draws the working matrix with basis labels on the left.
// hl may be nil; otherwise the entering column and pivot cell are styled.
func RenderTableau(t *mat.Dense, basis []int, n int, hl *Highlight, st Styles) string {
	rows, cols := t.Dims()
	m := rows - 1
	cell := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right)

	var b strings.Builder
	b.WriteString(cell.Render(""))
	for j := 0; j < cols; j++ {
		name := "rhs"
		if j < cols-1 {
			name = VarName(j, n)
		}
		b.WriteString(cell.Inherit(st.Muted).Render(name))
	}
	b.WriteString("\n")

	for i := 0; i < rows; i++ {
		label := "z"
		if i < m {
			label = VarName(basis[i], n)
		}
		b.WriteString(cell.Inherit(st.Basis).Render(label))
		for j := 0; j < cols; j++ {
			var s lipgloss.Style
			switch {
			case hl != nil && i == hl.Row && j == hl.Column:
				s = cell.Inherit(st.Pivot)
			case hl != nil && j == hl.Column:
				s = cell.Inherit(st.Entering)
			case i == m:
				s = cell.Inherit(st.Muted)
			default:
				s = cell.Inherit(st.Value)
			}
			b.WriteString(s.Render(formatNum(t.At(i, j))))
		}
		if i < rows-1 {
			b.WriteString("\n")
		}
	}
	return st.Panel.Render(b.String())
}

func renderVector(label string, v []float64, name func(int) string, st Styles) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%s=%s", name(i), formatNum(x))
	}
	return st.Label.Render(label) + st.Value.Render(strings.Join(parts, "  "))
}

// RenderSolution summarises an optimal LP solve.
func RenderSolution(sol *simplex.Solution, st Styles) string {
	n := len(sol.Primal)
	lines := []string{
		st.Header.Render("SOLUTION") + "  " + st.StatusBadge(simplex.Optimal),
		st.Label.Render("value") + st.Value.Render(formatNum(sol.Value)),
		renderVector("primal", sol.Primal, func(j int) string { return VarName(j, n) }, st),
		renderVector("dual", sol.Dual, func(i int) string { return fmt.Sprintf("y%d", i+1) }, st),
		st.Label.Render("pivots") + st.Value.Render(fmt.Sprint(sol.Pivots)),
	}
	return strings.Join(lines, "\n")
}

// RenderEquilibrium summarises a solved game.
func RenderEquilibrium(eq *game.Equilibrium, st Styles) string {
	lines := []string{
		st.Header.Render("EQUILIBRIUM"),
		st.Label.Render("value") + st.Value.Render(formatNum(eq.Value)),
		renderVector("row", eq.Row, func(i int) string { return fmt.Sprintf("r%d", i+1) }, st),
		renderVector("column", eq.Column, func(j int) string { return fmt.Sprintf("c%d", j+1) }, st),
		st.Label.Render("shift") + st.Value.Render(formatNum(eq.Shift)),
		st.Label.Render("pivots") + st.Value.Render(fmt.Sprint(eq.Pivots)),
	}
	return strings.Join(lines, "\n")
}

// RenderTrace lists each pivot of a solve, one per line.
func RenderTrace(trace []simplex.Pivot, n int, st Styles) string {
	if len(trace) == 0 {
		return st.Muted.Render("no pivots")
	}
	var b strings.Builder
	b.WriteString(st.Muted.Render(fmt.Sprintf("%4s  %-6s %-6s %10s %12s", "iter", "enter", "leave", "ratio", "objective")))
	for _, p := range trace {
		line := fmt.Sprintf("%4d  %-6s %-6s %10s %12s",
			p.Iteration, VarName(p.Column, n), VarName(p.Leaving, n), formatNum(p.Ratio), formatNum(p.Objective))
		if p.Degenerate {
			line += " " + st.Warning.Render("degenerate")
		}
		b.WriteString("\n" + st.Value.Render(line))
	}
	return b.String()
}

// Objectives returns the objective value before the first pivot and after
// each one.
func Objectives(trace []simplex.Pivot) []float64 {
	out := make([]float64, 0, len(trace)+1)
	out = append(out, 0)
	for _, p := range trace {
		out = append(out, p.Objective)
	}
	return out
}

// Chart plots a series with asciigraph. A single point is duplicated so
// the plot still has a line.
func Chart(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) == 1 {
		values = []float64{values[0], values[0]}
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
