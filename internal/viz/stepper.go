package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/lplab/internal/simplex"
)

const autoInterval = 400 * time.Millisecond

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(autoInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Stepper is a Bubble Tea model that advances a solver one pivot at a time.
type Stepper struct {
	name    string
	A       [][]float64
	b, c    []float64
	opts    []simplex.Option
	solver  *simplex.Solver
	trace   []simplex.Pivot
	styles  Styles
	auto    bool
	help    bool
	lastErr error
	width   int
}

// NewStepper validates the problem and builds the initial tableau.
func NewStepper(name string, A [][]float64, b, c []float64, theme Theme, opts ...simplex.Option) (*Stepper, error) {
	m := &Stepper{
		name:   name,
		A:      A,
		b:      b,
		c:      c,
		opts:   opts,
		styles: NewStyles(theme),
		width:  100,
	}
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Stepper) reset() error {
	m.trace = m.trace[:0]
	opts := append([]simplex.Option{}, m.opts...)
	opts = append(opts, simplex.WithObserver(simplex.ObserverFunc(func(p simplex.Pivot) {
		m.trace = append(m.trace, p)
	})))
	s, err := simplex.New(m.A, m.b, m.c, opts...)
	if err != nil {
		return err
	}
	m.solver = s
	m.lastErr = nil
	m.auto = false
	return nil
}

func (m *Stepper) step() {
	if m.solver.Status().Terminal() {
		m.auto = false
		return
	}
	done, err := m.solver.Step()
	if done {
		m.auto = false
		m.lastErr = err
	}
}

// Solver exposes the underlying solver, mainly for tests.
func (m *Stepper) Solver() *simplex.Solver { return m.solver }

func (m *Stepper) Trace() []simplex.Pivot { return m.trace }

func (m *Stepper) Init() tea.Cmd { return nil }

func (m *Stepper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "n", " ", "right", "l":
			m.step()
		case "a":
			m.auto = !m.auto
			if m.auto {
				return m, tick()
			}
		case "r":
			m.reset()
		case "t":
			m.styles = NewStyles(NextTheme(m.styles.Theme))
		case "?":
			m.help = !m.help
		}
	case TickMsg:
		if !m.auto {
			return m, nil
		}
		m.step()
		if m.auto {
			return m, tick()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// next returns the pivot the solver would perform on its next step.
func (m *Stepper) next() *Highlight {
	row, col := m.solver.Next()
	if col < 0 {
		return nil
	}
	return &Highlight{Row: row, Column: col}
}

func (m *Stepper) View() string {
	st := m.styles
	_, n := m.solver.Dims()

	var left strings.Builder
	left.WriteString(st.Header.Render(strings.ToUpper(m.name)) + "\n")
	left.WriteString(RenderTableau(m.solver.Tableau(), m.solver.Basis(), n, m.next(), st))

	var right strings.Builder
	right.WriteString(st.Label.Render("status") + st.StatusBadge(m.solver.Status()) + "\n")
	right.WriteString(st.Label.Render("pivots") + st.Value.Render(fmt.Sprint(m.solver.Pivots())) + "\n")
	right.WriteString(st.Label.Render("objective") + st.Value.Render(formatNum(m.solver.Value())) + "\n")
	if m.lastErr != nil {
		right.WriteString(st.Error.Render(m.lastErr.Error()) + "\n")
	}
	if m.auto {
		right.WriteString(st.Warning.Render("auto") + "\n")
	}
	if len(m.trace) > 0 {
		chartWidth := max(10, min(40, m.width/3))
		right.WriteString("\n" + Chart(Objectives(m.trace), "objective", chartWidth, 5) + "\n")
		last := m.trace[len(m.trace)-1]
		right.WriteString(st.Muted.Render(fmt.Sprintf("last: %s in, %s out", VarName(last.Column, n), VarName(last.Leaving, n))) + "\n")
	}

	help := "n/space:step  a:auto  r:reset  t:theme  ?:help  q:quit"
	if m.help {
		help = strings.Join([]string{
			"n, space, →  perform one pivot",
			"a            toggle automatic stepping",
			"r            rebuild the initial tableau",
			"t            cycle colour themes",
			"q            quit",
		}, "\n")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left.String(), "  ", right.String())
	return body + "\n\n" + st.Help.Render(help) + "\n"
}
