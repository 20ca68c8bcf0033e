package cli

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for command output.
type Theme struct {
	Primary lipgloss.Color // accent for names and headings
	Dim     lipgloss.Color // secondary detail
	Warn    lipgloss.Color // rejections and aborts
}

// DefaultTheme is the default green-on-dark theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
	Warn:    lipgloss.Color("#f0883e"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title lipgloss.Style
	Name  lipgloss.Style
	Score lipgloss.Style
	Warn  lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Name:  lipgloss.NewStyle().Foreground(t.Primary),
		Score: lipgloss.NewStyle().Foreground(t.Dim),
		Warn:  lipgloss.NewStyle().Foreground(t.Warn),
	}
}
