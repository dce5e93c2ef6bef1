package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar reports.
type StatusInfo struct {
	State    string
	Devices  int
	Selected string
	SweepDeg float64
	ScanID   string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s StatusInfo) string {
	status := StateStyle(s.State).Render("[" + s.State + "]")

	selected := s.Selected
	if selected == "" {
		selected = "none"
	}
	info := fmt.Sprintf(" Devices: %d  Selected: %s  Sweep: %3ddeg", s.Devices, selected, int(s.SweepDeg))
	if s.ScanID != "" {
		info += "  Scan: " + s.ScanID
	}

	content := status + StyleStatusBar.UnsetPadding().UnsetBackground().Render(info)
	content = lipgloss.NewStyle().MaxWidth(width - 2).Render(content)

	gap := width - 2 - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
