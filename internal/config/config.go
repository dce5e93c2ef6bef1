package config

import (
	"math"
	"time"
)

const (
	// Virtual canvas: one terminal cell covers CellWidthPx x CellHeightPx pixels.
	// Terminal chars are ~2:1 tall, so the radar stays round in pixel space.
	CellWidthPx  = 8
	CellHeightPx = 16

	// Radar display
	RadiusMargin = 20.0 // Pixels between the outer ring and the canvas edge
	RingCount    = 4    // Number of concentric rings
	SweepStep    = 0.03 // Sweep advance per frame (radians)
	SweepWedge   = math.Pi / 12
	HaloRadius   = 8.0 // Halo ring around each blip (pixels)
	LabelMaxLen  = 10  // Blip label width (terminal cells)
	TargetFPS    = 60  // Target frames per second

	// RSSI to radius mapping
	MinRSSI           = -100.0 // dBm, drawn at MinRadiusFrac
	MaxRSSI           = -40.0  // dBm, drawn at the outer ring
	MinRadiusFrac     = 0.2
	UnknownRadiusFrac = 0.6 // Devices that never reported RSSI

	// Age fading
	FreshAge   = 5 * time.Second  // Full opacity below this age
	StaleAge   = 15 * time.Second // Half opacity below this age, minimal above
	OpacityNew = 1.0
	OpacityMid = 0.5
	OpacityOld = 0.2

	// Selection
	HitRadius = 20.0 // Click must land within this many pixels of a blip

	// Device management
	RSSIHistoryLen = 64 // Readings kept per device for the sparkline

	// GATT
	MaxAttributeLen  = 512 // Largest characteristic value we read
	OperationTimeout = 15 * time.Second

	// Event log
	LogCapacity = 500

	// Demo mode
	DemoDeviceMin = 8  // Minimum fake devices
	DemoDeviceMax = 12 // Maximum fake devices

	// App
	AppName    = "GATT-RADAR"
	AppVersion = "1.0"
)
