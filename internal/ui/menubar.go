package ui

import (
	"fmt"
	"strings"

	"ble-gatt-radar.klederson.com/internal/config"
	"github.com/charmbracelet/lipgloss"
)

var menuKeys = []struct{ key, label string }{
	{"S", "can"},
	{"X", " stop"},
	{"C", "onnect"},
	{"D", "isconnect"},
	{"R", "ead"},
	{"W", "rite"},
	{"L", " clear log"},
	{"Tab", " focus"},
	{"Q", "uit"},
}

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, adapter string, demo bool, state string) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	menu := ""
	for _, k := range menuKeys {
		menu += " " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	source := fmt.Sprintf("Adapter: %s", adapter)
	if demo {
		source = "DEMO"
	}
	right := StateStyle(state).Render(state) + "  " + StyleMenuLabel.Render(source) + " "
	left := StyleMenuKey.Render(title) + menu

	// Drop the key hints first when the terminal is narrow.
	if lipgloss.Width(left)+lipgloss.Width(right) > width-2 {
		left = StyleMenuKey.Render(title)
	}

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// StateStyle picks the indicator style for an application state name.
func StateStyle(state string) lipgloss.Style {
	switch state {
	case "CONNECTED":
		return StyleStateConnected
	case "SCANNING", "SELECTED":
		return StyleStateActive
	default:
		return StyleStateIdle
	}
}
