package main

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"}
	colorError   = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"}
)

// styles holds the report styles.
type styles struct {
	Title   lipgloss.Style
	Phase   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary),
		Phase: lipgloss.NewStyle().
			Width(12),
		Success: lipgloss.NewStyle().
			Foreground(colorSuccess),
		Warning: lipgloss.NewStyle().
			Foreground(colorWarning),
		Error: lipgloss.NewStyle().
			Foreground(colorError),
		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),
	}
}
