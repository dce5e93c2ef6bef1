package radar

import (
	"time"

	"ble-gatt-radar.klederson.com/internal/bluetooth"
	"ble-gatt-radar.klederson.com/internal/config"
	"github.com/mattn/go-runewidth"
)

// Blip is one device as drawn in a frame.
type Blip struct {
	ID       string
	Label    string
	X, Y     float64 // Canvas pixels
	Radius   float64 // Distance from the centre
	Opacity  float64
	Selected bool
}

// Frame is the geometry of one radar frame on a virtual pixel canvas.
type Frame struct {
	Width, Height float64
	CX, CY        float64
	MaxRadius     float64
	Sweep         float64
	Blips         []Blip
}

// PositionRecorder stores where each device was drawn.
type PositionRecorder interface {
	SetScreenPos(id string, x, y float64)
}

// Layout places every device on a width x height pixel canvas.
func Layout(width, height float64, devices []*bluetooth.Device, selectedID string, sweepAngle float64, now time.Time) Frame {
	f := Frame{
		Width:     width,
		Height:    height,
		CX:        width / 2,
		CY:        height / 2,
		MaxRadius: MaxRadius(width, height),
		Sweep:     sweepAngle,
		Blips:     make([]Blip, 0, len(devices)),
	}

	for _, d := range devices {
		r := RSSIToRadius(d.RSSI, d.HasRSSI, f.MaxRadius)
		x, y := PolarToCanvas(f.CX, f.CY, d.Angle, r)
		f.Blips = append(f.Blips, Blip{
			ID:       d.ID,
			Label:    runewidth.Truncate(d.DisplayName(), config.LabelMaxLen, ""),
			X:        x,
			Y:        y,
			Radius:   r,
			Opacity:  Opacity(now.Sub(d.LastSeen)),
			Selected: d.ID == selectedID,
		})
	}
	return f
}

// Record stores the blip positions so clicks can be hit-tested against them.
func (f Frame) Record(rec PositionRecorder) {
	for _, b := range f.Blips {
		rec.SetScreenPos(b.ID, b.X, b.Y)
	}
}
