package bluetooth

import (
	"strconv"
	"time"
)

// UnknownName is shown for devices that never advertised a name.
const UnknownName = "Unknown"

// Advertisement is one advertisement report from the host stack.
type Advertisement struct {
	ID      string
	Name    string
	RSSI    int16
	HasRSSI bool
	Handle  Peripheral // Used to open a GATT session, may be nil
}

// Device is the last-known state of an advertiser.
type Device struct {
	ID       string
	Name     string
	RSSI     int16
	HasRSSI  bool
	Angle    float64 // Radians in [0, 2π), screen convention: 0=east, clockwise
	LastSeen time.Time

	// Position drawn in the most recent frame, in canvas pixels.
	ScreenX  float64
	ScreenY  float64
	Rendered bool

	handle Peripheral
}

// DisplayName returns the device name or UnknownName if empty.
func (d *Device) DisplayName() string {
	if d.Name == "" {
		return UnknownName
	}
	return d.Name
}

// RSSIString formats the signal strength, "-" when unknown.
func (d *Device) RSSIString() string {
	if !d.HasRSSI {
		return "-"
	}
	return strconv.Itoa(int(d.RSSI)) + " dBm"
}

// Handle returns the platform handle delivered with the last advertisement.
func (d *Device) Handle() Peripheral {
	return d.handle
}
