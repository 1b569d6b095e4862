package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	colorPrimary = lipgloss.Color("#00BFFF") // Deep sky blue
	colorDanger  = lipgloss.Color("#FF6B6B")
	colorWarning = lipgloss.Color("#FFD93D")
	colorSuccess = lipgloss.Color("#6BCF7F")
	colorMuted   = lipgloss.Color("#6C757D")
	colorBorder  = lipgloss.Color("#4A90E2")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	riskLowStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	riskModerateStyle = lipgloss.NewStyle().
				Foreground(colorWarning).
				Bold(true)

	riskHighStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	seasonalBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#000000")).
				Background(colorWarning).
				Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// riskStyle picks a colour for a seasickness risk score
func riskStyle(risk int) lipgloss.Style {
	switch {
	case risk < 30:
		return riskLowStyle
	case risk < 60:
		return riskModerateStyle
	default:
		return riskHighStyle
	}
}
