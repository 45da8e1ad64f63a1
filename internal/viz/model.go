package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/drag"
	"github.com/san-kum/pidlab/internal/sim"
)

const (
	historyCapacity = 300
	minCols         = 20
	minRows         = 8
)

// Hint is the tuning guide shown under the gain fields.
var Hint = []string{
	"Higher Kp = Faster response, but might overshoot.",
	"Lower Kp = Slower response, but no overshooting.",
	"Higher Ki = Fixes small errors, but may overcorrect.",
	"Lower Ki = Leaves small errors, but smoother behavior.",
	"Higher Kd = Smooths out the movement, but may slow down the system.",
	"Lower Kd = Faster corrections, but may overshoot.",
}

type TickMsg time.Time

// Model owns the simulation state for the lifetime of the program.
type Model struct {
	state    sim.State
	period   time.Duration
	renderer *BrailleRenderer
	theme    Theme
	styles   styles

	selected   int
	errHistory []float64
	lastStep   control.Step

	record  bool
	samples []sim.Sample
	n       int
}

// NewModel builds a model drawing on a cols x rows cell canvas. The canvas
// is resized to fill the terminal once its size is known.
func NewModel(st sim.State, period time.Duration, cols, rows int, theme Theme) Model {
	view := Viewport{
		WorldWidth:  st.Bounds.MaxX + 2*st.EntityRadius,
		WorldHeight: st.Bounds.MaxY + 2*st.EntityRadius,
		Cols:        cols,
		Rows:        rows,
	}
	return Model{
		state:      st,
		period:     period,
		renderer:   NewBrailleRenderer(view, theme),
		theme:      theme,
		styles:     newStyles(theme),
		errHistory: make([]float64, 0, historyCapacity),
	}
}

// WithRecording keeps every tick sample so the session can be saved.
func (m Model) WithRecording() Model {
	m.record = true
	m.samples = []sim.Sample{sim.NewSample(0, m.period, m.state, sim.Outcome{})}
	return m
}

func (m Model) State() sim.State { return m.state }

func (m Model) Samples() []sim.Sample { return m.samples }

func (m Model) SelectedGain() string { return control.GainNames[m.selected] }

func (m Model) ErrorHistory() []float64 { return m.errHistory }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.period, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.apply(sim.Tick{})
		return m, m.tick()
	case tea.MouseMsg:
		if ev, ok := m.pointerEvent(msg); ok {
			m.apply(ev)
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		cols := max(minCols, msg.Width-panelWidth-3)
		rows := max(minRows, msg.Height-1)
		m.renderer.Resize(cols, rows)
	}
	return m, nil
}

func (m *Model) apply(ev sim.Event) {
	var out sim.Outcome
	m.state, out = sim.Reduce(m.state, ev)

	switch ev.(type) {
	case sim.Tick:
		if out.Ticked {
			m.lastStep = out.Step
		}
		m.errHistory = append(m.errHistory, m.state.Error().Norm())
		if len(m.errHistory) > historyCapacity {
			m.errHistory = m.errHistory[1:]
		}
		m.n++
		if m.record {
			m.samples = append(m.samples, sim.NewSample(m.n, m.period, m.state, out))
		}
	case sim.Restart:
		m.lastStep = control.Step{}
		m.errHistory = m.errHistory[:0]
	}
}

func (m Model) pointerEvent(msg tea.MouseMsg) (sim.Event, bool) {
	view := m.renderer.View
	p := view.CellToWorld(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if !view.Contains(msg.X, msg.Y) {
			return nil, false
		}
		b, ok := button(msg.Button)
		if !ok {
			return nil, false
		}
		return sim.PointerDown{Pos: p, Button: b}, true
	case tea.MouseActionMotion:
		return sim.PointerMove{Pos: p}, true
	case tea.MouseActionRelease:
		b, ok := button(msg.Button)
		if !ok {
			// some terminals do not report which button was released
			b = drag.ButtonPrimary
		}
		return sim.PointerUp{Button: b}, true
	}
	return nil, false
}

func button(b tea.MouseButton) (drag.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return drag.ButtonPrimary, true
	case tea.MouseButtonRight:
		return drag.ButtonSecondary, true
	case tea.MouseButtonMiddle:
		return drag.ButtonMiddle, true
	}
	return 0, false
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name := control.GainNames[m.selected]
	text, _ := m.state.Fields.Text(name)

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab:
		m.selected = (m.selected + 1) % len(control.GainNames)
		return m, nil
	case tea.KeyShiftTab:
		m.selected = (m.selected + len(control.GainNames) - 1) % len(control.GainNames)
		return m, nil
	case tea.KeyBackspace:
		if r := []rune(text); len(r) > 0 {
			m.apply(sim.SetGain{Name: name, Text: string(r[:len(r)-1])})
		}
		return m, nil
	case tea.KeyCtrlU:
		m.apply(sim.SetGain{Name: name, Text: ""})
		return m, nil
	case tea.KeyRunes:
	default:
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.apply(sim.Restart{})
		return m, nil
	case "t":
		m.theme = nextTheme(m.theme)
		m.styles = newStyles(m.theme)
		m.renderer.Theme = m.theme
		return m, nil
	}

	m.apply(sim.SetGain{Name: name, Text: text + string(msg.Runes)})
	return m, nil
}

// View renders the canvas and the side panel.
func (m Model) View() string {
	st := m.state
	canvas := m.renderer.Draw(
		Circle{Center: st.Position, Radius: st.EntityRadius},
		Circle{Center: st.Target, Radius: st.TargetRadius},
	)

	var s strings.Builder
	s.WriteString(m.styles.header.Render("PID CONTROLLER") + "\n")
	if st.Dragging() {
		s.WriteString(m.styles.dragging.Render("DRAGGING") + "\n\n")
	} else {
		s.WriteString(m.styles.running.Render("RUNNING") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(m.styles.label.Render(label) + m.styles.value.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d (%d skipped)", st.Ticks, st.Skipped))
	row("Position", st.Position.String())
	row("Target", st.Target.String())
	err := st.Error()
	row("Error", fmt.Sprintf("%s |%.1f|", err.String(), err.Norm()))
	row("Integral", fmt.Sprintf("(%.1f, %.1f)", st.Controller.X.Integral, st.Controller.Y.Integral))
	row("Output", m.lastStep.Control().String())

	s.WriteString("\nGAINS\n")
	labels := map[string]string{
		control.GainKp: "Proportional",
		control.GainKi: "Integral",
		control.GainKd: "Derivative",
	}
	for i, name := range control.GainNames {
		text, _ := st.Fields.Text(name)
		line := fmt.Sprintf("%-13s %s", labels[name]+" ("+strings.ToUpper(name[:1])+name[1:]+"):", text)
		if !m.fieldValid(name) {
			line += m.styles.invalid.Render(" ✗")
		}
		if i == m.selected {
			s.WriteString(m.styles.active.Render("> "+line+"▏") + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}

	if len(m.errHistory) > 1 {
		chart := asciigraph.Plot(m.errHistory,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption("|error|"),
		)
		s.WriteString("\n" + m.styles.graph.Render(chart) + "\n")
	}

	s.WriteString("\n" + m.styles.help.Render(strings.Join(Hint, "\n")))
	s.WriteString("\n" + m.styles.help.Render(separator(30)+"\nTab:Field R:Restart T:Theme Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.styles.panel.Render(s.String()))
}

func (m Model) fieldValid(name string) bool {
	switch name {
	case control.GainKp:
		return m.state.Fields.Kp.Valid()
	case control.GainKi:
		return m.state.Fields.Ki.Valid()
	}
	return m.state.Fields.Kd.Valid()
}

// Run starts the program on the terminal and returns the final model.
func Run(m Model) (Model, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return m, err
	}
	return final.(Model), nil
}
