package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name   string
	Entity lipgloss.Color
	Target lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Good   lipgloss.Color
	Bad    lipgloss.Color
}

var (
	// ThemeClassic uses the blue entity and red target of the desktop demo.
	ThemeClassic = Theme{
		Name:   "classic",
		Entity: lipgloss.Color("#3b82f6"),
		Target: lipgloss.Color("#ef4444"),
		Accent: lipgloss.Color("#00ccff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#555566"),
		Good:   lipgloss.Color("#00ff88"),
		Bad:    lipgloss.Color("#ff8800"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Entity: lipgloss.Color("#00ff00"), // Green phosphor
		Target: lipgloss.Color("#88ff88"),
		Accent: lipgloss.Color("#00cc00"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Good:   lipgloss.Color("#88ff88"),
		Bad:    lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Entity: lipgloss.Color("#ffffff"),
		Target: lipgloss.Color("#0088ff"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Good:   lipgloss.Color("#00ff00"),
		Bad:    lipgloss.Color("#ffaa00"),
	}

	Themes = []Theme{
		ThemeClassic,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

func nextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeClassic
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
