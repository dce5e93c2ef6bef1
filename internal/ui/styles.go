package ui

import "github.com/charmbracelet/lipgloss"

// Radar palette
var (
	ColorRadarGreen  = lipgloss.Color("#22C55E")
	ColorGreen       = lipgloss.Color("#16A34A")
	ColorMidGreen    = lipgloss.Color("#15803D")
	ColorDimGreen    = lipgloss.Color("#14532D")
	ColorBar         = lipgloss.Color("#052E16")
	ColorSelected    = lipgloss.Color("#F8FAFC")
	ColorLabel       = lipgloss.Color("#D1D5DB")
	ColorBorderNorm  = lipgloss.Color("#166534")
	ColorBorderFocus = lipgloss.Color("#4ADE80")
	ColorError       = lipgloss.Color("#EF4444")
	ColorWarning     = lipgloss.Color("#F59E0B")
	ColorInfo        = lipgloss.Color("#38BDF8")
)

var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(ColorBar).
			Foreground(ColorRadarGreen).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorRadarGreen).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleStatusBar = lipgloss.NewStyle().
			Background(ColorBar).
			Foreground(ColorGreen).
			Padding(0, 1)

	StyleStateActive = lipgloss.NewStyle().
				Foreground(ColorRadarGreen).
				Bold(true)

	StyleStateConnected = lipgloss.NewStyle().
				Foreground(ColorInfo).
				Bold(true)

	StyleStateIdle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderNorm)

	StylePanelActive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorRadarGreen).
			Bold(true).
			Padding(0, 1)

	StyleFieldLabel = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleFieldValue = lipgloss.NewStyle().
			Foreground(ColorLabel).
			Bold(true)

	StyleDeviceName = lipgloss.NewStyle().
			Foreground(ColorRadarGreen).
			Bold(true)

	StyleDeviceID = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleDeviceRSSI = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleSelectedRow = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#000000")).
				Background(ColorRadarGreen).
				Bold(true)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	StyleSeparator = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleLogInfo = lipgloss.NewStyle().
			Foreground(ColorLabel)

	StyleLogWarn = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleLogError = lipgloss.NewStyle().
			Foreground(ColorError)
)

// panelStyle returns the border style for a panel with or without focus.
func panelStyle(focused bool) lipgloss.Style {
	if focused {
		return StylePanelActive
	}
	return StylePanelBorder
}
