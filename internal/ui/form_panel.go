package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FormField is one rendered text input and its label.
type FormField struct {
	Label string
	View  string
}

// RenderFormPanel renders the GATT service/characteristic/payload inputs.
func RenderFormPanel(fields []FormField, width int, focused bool) string {
	labelW := 0
	for _, f := range fields {
		labelW = max(labelW, lipgloss.Width(f.Label))
	}

	lines := []string{StylePanelTitle.Render("GATT")}
	for _, f := range fields {
		label := f.Label + strings.Repeat(" ", labelW-lipgloss.Width(f.Label))
		lines = append(lines, StyleFieldLabel.Render(" "+label+" ")+f.View)
	}
	content := lipgloss.NewStyle().MaxWidth(width - 2).Render(strings.Join(lines, "\n"))
	return panelStyle(focused).Width(width - 2).Render(content)
}

// FormPanelHeight is the height of a form panel with n fields.
func FormPanelHeight(n int) int {
	return n + 3
}
