package radar

import (
	"math"
	"time"

	"ble-gatt-radar.klederson.com/internal/config"
)

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// MaxRadius returns the usable radar radius for a canvas, in pixels.
func MaxRadius(width, height float64) float64 {
	r := math.Min(width, height)/2 - config.RadiusMargin
	if r < 0 {
		return 0
	}
	return r
}

// RadiusFraction maps signal strength to a fraction of the radar radius.
// RSSI is clamped to [MinRSSI, MaxRSSI] and rescaled linearly onto
// [MinRadiusFrac, 1]; devices without RSSI sit at UnknownRadiusFrac.
func RadiusFraction(rssi int16, hasRSSI bool) float64 {
	if !hasRSSI {
		return config.UnknownRadiusFrac
	}
	v := math.Max(config.MinRSSI, math.Min(config.MaxRSSI, float64(rssi)))
	t := (v - config.MinRSSI) / (config.MaxRSSI - config.MinRSSI)
	return config.MinRadiusFrac + t*(1-config.MinRadiusFrac)
}

// RSSIToRadius maps signal strength to a distance from the radar centre.
func RSSIToRadius(rssi int16, hasRSSI bool, maxRadius float64) float64 {
	return RadiusFraction(rssi, hasRSSI) * maxRadius
}

// Opacity fades a blip by the time since its last advertisement. It is a
// step function; an age equal to a threshold already gets the dimmer step.
func Opacity(age time.Duration) float64 {
	switch {
	case age < config.FreshAge:
		return config.OpacityNew
	case age < config.StaleAge:
		return config.OpacityMid
	default:
		return config.OpacityOld
	}
}

// PolarToCanvas converts a polar position around (cx, cy) to canvas pixels.
// Angle 0 points east and grows clockwise because the canvas y axis points down.
func PolarToCanvas(cx, cy, angle, r float64) (x, y float64) {
	return cx + math.Cos(angle)*r, cy + math.Sin(angle)*r
}

// CanvasSize returns the virtual pixel size of a cols x rows cell area.
func CanvasSize(cols, rows int) (width, height float64) {
	return float64(cols * config.CellWidthPx), float64(rows * config.CellHeightPx)
}

// CellCenter returns the canvas pixel at the centre of a cell.
func CellCenter(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * config.CellWidthPx, (float64(row) + 0.5) * config.CellHeightPx
}

// CanvasToCell returns the cell containing a canvas pixel.
func CanvasToCell(x, y float64) (col, row int) {
	return int(math.Floor(x / config.CellWidthPx)), int(math.Floor(y / config.CellHeightPx))
}

// RingChar returns the character tracing a circle at the given canvas angle.
func RingChar(angle float64) rune {
	sector := int(math.Round(NormalizeAngle(angle)/(math.Pi/4))) % 8
	switch sector {
	case 0, 4: // East, West
		return '|'
	case 1, 5: // SE, NW
		return '/'
	case 2, 6: // South, North
		return '-'
	default: // SW, NE
		return '\\'
	}
}
