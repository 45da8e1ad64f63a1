package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const panelWidth = 46

type styles struct {
	panel    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	active   lipgloss.Style
	invalid  lipgloss.Style
	running  lipgloss.Style
	dragging lipgloss.Style
	graph    lipgloss.Style
	help     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(panelWidth),
		header:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		active:   lipgloss.NewStyle().Foreground(t.Entity).Bold(true),
		invalid:  lipgloss.NewStyle().Foreground(t.Bad),
		running:  lipgloss.NewStyle().Foreground(t.Good).Bold(true),
		dragging: lipgloss.NewStyle().Foreground(t.Bad).Bold(true),
		graph:    lipgloss.NewStyle().Foreground(t.Accent),
		help:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
	}
}

// ErrorBar renders |err| relative to max as a bar of the given width.
func ErrorBar(err, max float64, width int) string {
	ratio := 0.0
	if max > 0 {
		ratio = err / max
	}
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func separator(width int) string {
	return strings.Repeat("─", width)
}
