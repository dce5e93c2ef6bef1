package ui

import (
	"fmt"
	"strings"

	"ble-gatt-radar.klederson.com/internal/bluetooth"
	"github.com/mattn/go-runewidth"
)

const linesPerDevice = 2

// RenderDeviceList renders the device list in discovery order. The window
// scrolls so that the selected device stays visible.
func RenderDeviceList(devices []*bluetooth.Device, selectedID string, width, height int, focused bool) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}
	innerH := height - 2
	if innerH < 3 {
		innerH = 3
	}

	header := []string{
		StylePanelTitle.Render(fmt.Sprintf("DEVICES [%d]", len(devices))),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
	}
	space := innerH - len(header)
	if space < 1 {
		space = 1
	}

	var lines []string
	if len(devices) == 0 {
		lines = append(lines, StyleHelp.Render(" No devices..."), StyleHelp.Render(" Press [S] to scan"))
	} else {
		selIdx := -1
		for i, d := range devices {
			if d.ID == selectedID {
				selIdx = i
				break
			}
		}

		visible := space / linesPerDevice
		if visible < 1 {
			visible = 1
		}
		start := 0
		if selIdx >= visible {
			start = selIdx - visible + 1
		}
		for i := start; i < len(devices) && len(lines) < space; i++ {
			lines = append(lines, renderDeviceEntry(devices[i], innerW, i == selIdx)...)
		}
	}

	if len(lines) > space {
		lines = lines[:space]
	}
	for len(lines) < space {
		lines = append(lines, "")
	}

	content := strings.Join(append(header, lines...), "\n")
	return panelStyle(focused).Width(width - 2).Height(innerH).MaxHeight(height).Render(content)
}

func renderDeviceEntry(d *bluetooth.Device, maxW int, selected bool) []string {
	rssi := d.RSSIString()
	marker := "  "
	if selected {
		marker = ">>"
	}

	nameW := maxW - runewidth.StringWidth(rssi) - 6
	if nameW < 4 {
		nameW = 4
	}
	name := runewidth.FillRight(runewidth.Truncate(d.DisplayName(), nameW, "~"), nameW)
	id := runewidth.Truncate(d.ID, maxW-5, "~")

	if selected {
		line1 := runewidth.FillRight(fmt.Sprintf("%s @ %s %s", marker, name, rssi), maxW)
		line2 := runewidth.FillRight("     "+id, maxW)
		return []string{StyleSelectedRow.Render(line1), StyleSelectedRow.Render(line2)}
	}

	line1 := fmt.Sprintf("%s * %s %s", marker, StyleDeviceName.Render(name), StyleDeviceRSSI.Render(rssi))
	line2 := "     " + StyleDeviceID.Render(id)
	return []string{line1, line2}
}
