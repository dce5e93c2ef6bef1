package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"ble-gatt-radar.klederson.com/internal/bluetooth"
	"ble-gatt-radar.klederson.com/internal/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// Detail is everything the selection panel shows.
type Detail struct {
	Device        *bluetooth.Device // nil when nothing is selected
	History       []float64
	Connected     bool
	ConnectedName string
	LastValue     string
	Now           time.Time
}

// RenderDetailPanel renders the selected device, the connection status and
// the last value read.
func RenderDetailPanel(d Detail, width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	lines := []string{
		StylePanelTitle.Render("SELECTION"),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
	}

	field := func(label, value string) string {
		value = runewidth.Truncate(value, innerW-11, "~")
		return StyleFieldLabel.Render(fmt.Sprintf(" %-9s ", label)) + StyleFieldValue.Render(value)
	}

	if d.Device == nil {
		lines = append(lines,
			field("Name", "-"),
			field("ID", "-"),
			field("RSSI", "-"),
			field("Seen", "-"),
		)
	} else {
		lines = append(lines,
			field("Name", d.Device.DisplayName()),
			field("ID", d.Device.ID),
			field("RSSI", d.Device.RSSIString()),
			field("Seen", FormatLastSeen(d.Device.LastSeen, d.Now)),
		)
		if d.Device.HasRSSI {
			barW := innerW - 12
			if barW < 8 {
				barW = 8
			}
			lines = append(lines, StyleFieldLabel.Render(" Signal    ")+renderSignalBar(float64(d.Device.RSSI), barW))
		}
		if len(d.History) > 1 {
			lines = append(lines, StyleFieldLabel.Render(" History   ")+
				lipgloss.NewStyle().Foreground(ColorGreen).Render(renderSparkline(d.History, innerW-11)))
		}
	}

	status := "Not connected"
	if d.Connected {
		status = "Connected to " + d.ConnectedName
	}
	value := d.LastValue
	if value == "" {
		value = "-"
	}
	lines = append(lines, "", field("Status", status), field("Value", value))

	innerH := height - 2
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	return StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(lines, "\n"))
}

// FormatLastSeen renders how long ago a device was heard: "now" under two
// seconds, a relative time otherwise.
func FormatLastSeen(t, now time.Time) string {
	if now.Sub(t) < 2*time.Second {
		return "now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func renderSignalBar(rssi float64, width int) string {
	ratio := (rssi - config.MinRSSI) / (config.MaxRSSI - config.MinRSSI)
	ratio = math.Max(0, math.Min(1, ratio))
	filled := int(math.Round(ratio * float64(width)))

	filledPart := lipgloss.NewStyle().Foreground(signalColor(ratio)).Render(strings.Repeat("|", filled))
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(strings.Repeat("-", width-filled))
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func signalColor(ratio float64) lipgloss.Color {
	switch {
	case ratio >= 0.66:
		return ColorRadarGreen
	case ratio >= 0.33:
		return ColorWarning
	default:
		return ColorError
	}
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	if len(values) > width {
		values = values[len(values)-width:]
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		sb.WriteByte(chars[idx])
	}
	return sb.String()
}
