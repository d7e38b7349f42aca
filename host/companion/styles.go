package companion

import (
	"github.com/charmbracelet/lipgloss"

	"sphere/host/threat"
)

// Palette
var (
	ColorAccent = lipgloss.Color("#FF5F87")
	ColorText   = lipgloss.Color("#E4E4E4")
	ColorDim    = lipgloss.Color("#6C6C6C")
	ColorOK     = lipgloss.Color("#5FD787")
	ColorAlert  = lipgloss.Color("#FF3300")
	ColorWarn   = lipgloss.Color("#FFAA00")
	ColorBar    = lipgloss.Color("#262626")
)

// Pre-built styles
var (
	StyleTitle = lipgloss.NewStyle().
			Background(ColorBar).
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1)

	StylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 2)

	StyleRate = lipgloss.NewStyle().
			Foreground(ColorOK).
			Bold(true)

	StyleNoContact = lipgloss.NewStyle().
			Foreground(ColorWarn).
			Bold(true)

	StyleHistory = lipgloss.NewStyle().
			Foreground(ColorDim)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorAlert)

	StyleKey = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorText)

	StyleStatusBar = lipgloss.NewStyle().
			Background(ColorBar).
			Foreground(ColorText).
			Padding(0, 1)
)

func threatStyle(l threat.Level) lipgloss.Style {
	switch l {
	case threat.High:
		return StyleError.Bold(true)
	case threat.Medium:
		return StyleNoContact
	default:
		return StyleRate
	}
}
