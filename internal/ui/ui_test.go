package ui

import (
	"strings"
	"testing"
	"time"

	"ble-gatt-radar.klederson.com/internal/bluetooth"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestFormatLastSeen(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "now", FormatLastSeen(now, now))
	assert.Equal(t, "now", FormatLastSeen(now.Add(-1999*time.Millisecond), now))
	assert.Equal(t, "2 seconds ago", FormatLastSeen(now.Add(-2*time.Second), now))
	assert.Equal(t, "12 seconds ago", FormatLastSeen(now.Add(-12*time.Second), now))
	assert.Equal(t, "3 minutes ago", FormatLastSeen(now.Add(-3*time.Minute), now))
}

func TestRenderSparkline(t *testing.T) {
	assert.Empty(t, renderSparkline(nil, 10))
	assert.Equal(t, "_^", renderSparkline([]float64{-90, -50}, 10))
	assert.Equal(t, "___", renderSparkline([]float64{-60, -60, -60}, 10))

	long := make([]float64, 40)
	assert.Len(t, renderSparkline(long, 16), 16)
}

func TestRenderSignalBarWidth(t *testing.T) {
	for _, rssi := range []float64{-120, -70, -40, 0} {
		assert.Equal(t, 22, lipgloss.Width(renderSignalBar(rssi, 20)), "rssi %v", rssi)
	}
}

func TestRenderDeviceListKeepsSelectionVisible(t *testing.T) {
	var devices []*bluetooth.Device
	for _, id := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		devices = append(devices, &bluetooth.Device{ID: id, Name: "dev-" + id})
	}

	out := RenderDeviceList(devices, "H", 40, 10, false)
	assert.Contains(t, out, "DEVICES [8]")
	assert.Contains(t, out, "dev-H")
	assert.NotContains(t, out, "dev-A")
	assert.Equal(t, 10, len(strings.Split(out, "\n")))
}

func TestRenderDeviceListEmpty(t *testing.T) {
	out := RenderDeviceList(nil, "", 40, 10, true)
	assert.Contains(t, out, "No devices")
}

func TestRenderDetailPanel(t *testing.T) {
	now := time.Now()
	d := Detail{
		Device:        &bluetooth.Device{ID: "AA:BB", Name: "Lamp", RSSI: -55, HasRSSI: true, LastSeen: now},
		History:       []float64{-60, -55},
		Connected:     true,
		ConnectedName: "Lamp",
		LastValue:     "ON (raw: 79 78)",
		Now:           now,
	}
	out := RenderDetailPanel(d, 50, 15)
	assert.Contains(t, out, "Lamp")
	assert.Contains(t, out, "AA:BB")
	assert.Contains(t, out, "-55 dBm")
	assert.Contains(t, out, "now")
	assert.Contains(t, out, "Connected to Lamp")
	assert.Contains(t, out, "ON (raw: 79 78)")

	empty := RenderDetailPanel(Detail{Now: now}, 50, 15)
	assert.Contains(t, empty, "Not connected")
}

func TestRenderBarsFitWidth(t *testing.T) {
	menu := RenderMenuBar(100, "hci0", false, "SCANNING")
	assert.Equal(t, 100, lipgloss.Width(menu))
	assert.Contains(t, menu, "Adapter: hci0")

	narrow := RenderMenuBar(40, "hci0", true, "IDLE")
	assert.Equal(t, 40, lipgloss.Width(narrow))

	status := RenderStatusBar(100, StatusInfo{State: "CONNECTED", Devices: 3, Selected: "Lamp", SweepDeg: 42.7})
	assert.Equal(t, 100, lipgloss.Width(status))
	assert.Contains(t, status, "Devices: 3")
	assert.Contains(t, status, "Selected: Lamp")
}
