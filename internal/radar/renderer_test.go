package radar

import (
	"strings"
	"testing"
	"time"

	"ble-gatt-radar.klederson.com/internal/bluetooth"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Plain output keeps the assertions independent of the terminal.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderTooSmall(t *testing.T) {
	assert.Empty(t, Render(9, 10, Frame{}))
	assert.Empty(t, Render(20, 4, Frame{}))
}

func TestRenderGrid(t *testing.T) {
	cols, rows := 41, 21
	w, h := CanvasSize(cols, rows)
	f := Layout(w, h, nil, "", 0, time.Now())

	out := Render(cols, rows, f)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, rows)
	for _, l := range lines {
		assert.Equal(t, cols, lipgloss.Width(l))
	}

	assert.Equal(t, "+", string([]rune(lines[rows/2])[cols/2]))
	assert.Contains(t, out, "|")
	assert.Contains(t, out, "-")
	assert.Contains(t, out, ":", "sweep wedge")
}

func TestRenderBlipsAndLabels(t *testing.T) {
	cols, rows := 61, 31
	w, h := CanvasSize(cols, rows)
	now := time.Now()
	devices := []*bluetooth.Device{
		{ID: "A1", Name: "Sensor", RSSI: -70, HasRSSI: true, Angle: 0, LastSeen: now},
		{ID: "B2", Name: "Lamp", RSSI: -50, HasRSSI: true, Angle: 3.0, LastSeen: now},
	}
	f := Layout(w, h, devices, "B2", 1.5, now)

	out := Render(cols, rows, f)
	assert.Contains(t, out, "*")
	assert.Contains(t, out, "@")
	assert.Contains(t, out, "Sensor")
	assert.Contains(t, out, "Lamp")
	assert.Contains(t, out, "(")

	lines := strings.Split(out, "\n")
	col, row := CanvasToCell(f.Blips[0].X, f.Blips[0].Y)
	assert.Equal(t, "*", string([]rune(lines[row])[col]))
}

func TestRenderLegend(t *testing.T) {
	legend := RenderLegend(80)
	assert.Contains(t, legend, "selected")
	assert.LessOrEqual(t, lipgloss.Width(legend), 80)
}
