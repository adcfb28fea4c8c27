package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Rshep3087/lunchtogo/storage"
)

// Theme contains all the colors used throughout the application.
type Theme struct {
	Primary       lipgloss.TerminalColor
	Error         lipgloss.TerminalColor
	Success       lipgloss.TerminalColor
	Warning       lipgloss.TerminalColor
	Muted         lipgloss.TerminalColor
	Border        lipgloss.TerminalColor
	Text          lipgloss.TerminalColor
	SecondaryText lipgloss.TerminalColor
}

var accentColors = map[storage.AccentColor]string{
	storage.AccentBlue:   "#3b82f6",
	storage.AccentGreen:  "#22ba46",
	storage.AccentOrange: "#f97316",
	storage.AccentRed:    "#e05951",
	storage.AccentRose:   "#f43f5e",
	storage.AccentViolet: "#7D56F4",
	storage.AccentYellow: "#ffd644",
}

// newTheme builds the palette for a theme preference and accent color.
func newTheme(theme storage.Theme, accent storage.AccentColor) Theme {
	t := Theme{
		Primary:       accentColor(accent),
		Error:         lipgloss.Color("#ff0000"),
		Success:       lipgloss.Color("#22ba46"),
		Warning:       lipgloss.Color("#e05951"),
		Muted:         lipgloss.Color("#7f7d78"),
		Border:        lipgloss.Color("#7D56F4"),
		Text:          lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#FAFAFA"},
		SecondaryText: lipgloss.Color("#888888"),
	}

	switch theme {
	case storage.ThemeLight:
		t.Text = lipgloss.Color("#1a1a1a")
		t.SecondaryText = lipgloss.Color("#5c5c5c")
	case storage.ThemeDark:
		t.Text = lipgloss.Color("#FAFAFA")
	}

	return t
}

// accentColor returns the color for an accent. Black is unreadable on a dark
// terminal, so it turns yellow there.
func accentColor(accent storage.AccentColor) lipgloss.TerminalColor {
	if hex, ok := accentColors[accent]; ok {
		return lipgloss.Color(hex)
	}

	return lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffd644"}
}
