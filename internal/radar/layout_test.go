package radar

import (
	"math"
	"testing"
	"time"

	"ble-gatt-radar.klederson.com/internal/bluetooth"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder map[string][2]float64

func (r recorder) SetScreenPos(id string, x, y float64) { r[id] = [2]float64{x, y} }

func TestLayoutPlacesDevices(t *testing.T) {
	now := time.Unix(1000, 0)
	devices := []*bluetooth.Device{
		{ID: "A1", Name: "Sensor", RSSI: -70, HasRSSI: true, Angle: 0, LastSeen: now},
		{ID: "B2", Name: "A very long device name", Angle: math.Pi / 2, LastSeen: now.Add(-6 * time.Second)},
		{ID: "C3", RSSI: -40, HasRSSI: true, Angle: math.Pi, LastSeen: now.Add(-time.Minute)},
	}

	f := Layout(440, 440, devices, "B2", 1.0, now)
	require.Len(t, f.Blips, 3)
	assert.Equal(t, 220.0, f.CX)
	assert.Equal(t, 200.0, f.MaxRadius)
	assert.Equal(t, 1.0, f.Sweep)

	a := f.Blips[0]
	assert.InDelta(t, 120, a.Radius, 1e-9) // 0.6 * 200
	assert.InDelta(t, 340, a.X, 1e-9)
	assert.InDelta(t, 220, a.Y, 1e-9)
	assert.Equal(t, 1.0, a.Opacity)
	assert.Equal(t, "Sensor", a.Label)
	assert.False(t, a.Selected)

	b := f.Blips[1]
	assert.InDelta(t, 120, b.Radius, 1e-9, "unknown RSSI sits at 0.6")
	assert.InDelta(t, 220, b.X, 1e-9)
	assert.InDelta(t, 340, b.Y, 1e-9)
	assert.Equal(t, 0.5, b.Opacity)
	assert.Equal(t, "A very lon", b.Label)
	assert.True(t, b.Selected)

	c := f.Blips[2]
	assert.InDelta(t, 200, c.Radius, 1e-9)
	assert.Equal(t, 0.2, c.Opacity)
	assert.Equal(t, bluetooth.UnknownName, c.Label)

	rec := recorder{}
	f.Record(rec)
	assert.Len(t, rec, 3)
	assert.InDelta(t, 340, rec["A1"][0], 1e-9)
}

func TestLayoutLabelFitsCells(t *testing.T) {
	now := time.Unix(1000, 0)
	devices := []*bluetooth.Device{{ID: "W1", Name: "温度センサー計", LastSeen: now}}

	f := Layout(440, 440, devices, "", 0, now)
	require.Len(t, f.Blips, 1)
	assert.Equal(t, "温度センサ", f.Blips[0].Label)
	assert.Equal(t, 10, runewidth.StringWidth(f.Blips[0].Label))
}

func TestLayoutRecordsIntoStore(t *testing.T) {
	s := bluetooth.NewDeviceStore()
	s.Record(bluetooth.Advertisement{ID: "A1", Name: "Sensor", RSSI: -70, HasRSSI: true})

	f := Layout(400, 400, s.Snapshot(), "", 0, time.Now())
	f.Record(s)

	d, ok := s.Get("A1")
	require.True(t, ok)
	assert.True(t, d.Rendered)
	assert.InDelta(t, f.Blips[0].X, d.ScreenX, 1e-9)
	assert.InDelta(t, f.Blips[0].Y, d.ScreenY, 1e-9)
}
