package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout stacks the menu bar, the radar next to the side column, the
// log and the status bar.
func ComposeLayout(menuBar, radarPanel, side, logPanel, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, radarPanel, side)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, logPanel, statusBar)
}

// ComposeSide stacks the panels of the side column.
func ComposeSide(panels ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}
