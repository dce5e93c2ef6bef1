package radar

import (
	"math"

	"ble-gatt-radar.klederson.com/internal/bluetooth"
)

// HitTest returns the rendered device nearest to (x, y) if it lies strictly
// closer than threshold pixels. Ties go to the earliest device in the slice.
func HitTest(devices []*bluetooth.Device, x, y, threshold float64) (string, bool) {
	bestID := ""
	bestDist := math.Inf(1)
	for _, d := range devices {
		if !d.Rendered {
			continue
		}
		dist := math.Hypot(x-d.ScreenX, y-d.ScreenY)
		if dist < threshold && dist < bestDist {
			bestDist = dist
			bestID = d.ID
		}
	}
	return bestID, bestID != ""
}
