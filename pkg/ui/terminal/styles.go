package terminal

import "github.com/charmbracelet/lipgloss"

// Adaptive colors, light then dark variant
var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB74D"}
	colorError   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E57373"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
)

// Styles used around the glamour rendered summary
var (
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	WarningStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	MutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)
