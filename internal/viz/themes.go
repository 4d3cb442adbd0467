package viz

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name    string
	Wall    lipgloss.Color
	Lid     lipgloss.Color
	First   lipgloss.Color
	Second  lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeLab = Theme{
		Name:    "lab",
		Wall:    lipgloss.Color("#8888aa"),
		Lid:     lipgloss.Color("#ffcc00"),
		First:   lipgloss.Color("#4fa3ff"), // heavy, particle1
		Second:  lipgloss.Color("#ff5f5f"), // light, particle2
		Accent:  lipgloss.Color("#00cccc"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Wall:    lipgloss.Color("#00aa00"),
		Lid:     lipgloss.Color("#88ff88"),
		First:   lipgloss.Color("#00ff00"),
		Second:  lipgloss.Color("#ccff66"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Wall:    lipgloss.Color("#cccccc"),
		Lid:     lipgloss.Color("#ffffff"),
		First:   lipgloss.Color("#0088ff"),
		Second:  lipgloss.Color("#ff8800"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	CurrentTheme = ThemeLab

	Themes = []Theme{ThemeLab, ThemeRetro, ThemeMinimal}
)

// GetTheme returns a theme by name, or the lab theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeLab
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeLab
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
