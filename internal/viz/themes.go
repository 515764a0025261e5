package viz

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme colours the terminal preview. Glyphs keep their scene colour.
type Theme struct {
	Name    string
	Body    lipgloss.Color
	Rotor   lipgloss.Color
	Wire    lipgloss.Color
	Payload lipgloss.Color
	Fill    lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:    "classic",
		Body:    lipgloss.Color("#ffffff"),
		Rotor:   lipgloss.Color("#3b6bff"),
		Wire:    lipgloss.Color("#aaaaaa"),
		Payload: lipgloss.Color("#ff0000"),
		Fill:    lipgloss.Color("#4c00b3"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Accent:  lipgloss.Color("#00ffff"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Body:    lipgloss.Color("#00ff00"),
		Rotor:   lipgloss.Color("#00cc00"),
		Wire:    lipgloss.Color("#005500"),
		Payload: lipgloss.Color("#88ff88"),
		Fill:    lipgloss.Color("#00aa00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Accent:  lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Body:    lipgloss.Color("#e0f0ff"),
		Rotor:   lipgloss.Color("#00a8cc"),
		Wire:    lipgloss.Color("#4488aa"),
		Payload: lipgloss.Color("#ff4444"),
		Fill:    lipgloss.Color("#0077be"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Accent:  lipgloss.Color("#ffd700"),
		Warning: lipgloss.Color("#ffcc00"),
	}

	Themes = []Theme{ThemeClassic, ThemeRetroGreen, ThemeOcean}
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

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme cycles through Themes after current.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// Ink converts a colour to a terminal colour.
func Ink(c color.Color) lipgloss.Color {
	if c == nil {
		return ""
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return ""
	}
	return lipgloss.Color(cf.Hex())
}
