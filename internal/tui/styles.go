package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	primaryColor = lipgloss.Color("#2563EB") // Blue
	demandColor  = lipgloss.Color("#F97316") // Orange
	profitColor  = lipgloss.Color("#14B8A6") // Teal
	goodColor    = lipgloss.Color("#10B981") // Green
	warnColor    = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#EF4444") // Red

	borderColor    = lipgloss.Color("#374151")
	textColor      = lipgloss.Color("#F9FAFB")
	mutedTextColor = lipgloss.Color("#9CA3AF")
	trackColor     = lipgloss.Color("#4B5563")
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedTextColor)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	eventStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(primaryColor).
			PaddingLeft(1)

	goodStyle  = lipgloss.NewStyle().Foreground(goodColor)
	warnStyle  = lipgloss.NewStyle().Foreground(warnColor)
	errorStyle = lipgloss.NewStyle().Foreground(errorColor)
	helpStyle  = lipgloss.NewStyle().Foreground(mutedTextColor)
	trackStyle = lipgloss.NewStyle().Foreground(trackColor)
)
