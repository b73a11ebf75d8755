package tui

import "github.com/charmbracelet/lipgloss"

// Theme collects the styles the views share. Colors adapt to the terminal
// background so both light and dark setups stay readable.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Toast    lipgloss.Style
}

func DefaultTheme() Theme {
	accent := lipgloss.AdaptiveColor{Light: "25", Dark: "39"}
	dim := lipgloss.AdaptiveColor{Light: "245", Dark: "240"}
	notice := lipgloss.AdaptiveColor{Light: "162", Dark: "212"}

	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Subtitle: lipgloss.NewStyle().Foreground(dim),
		Help:     lipgloss.NewStyle().Foreground(dim),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(accent),
		Toast: lipgloss.NewStyle().Bold(true).Foreground(notice),
	}
}
