package app

import (
	"time"

	"ble-gatt-radar.klederson.com/internal/bluetooth"
	"ble-gatt-radar.klederson.com/internal/connection"
)

// TickMsg triggers a radar frame.
type TickMsg time.Time

// AdvertisementMsg carries one advertisement from the scanner goroutine.
type AdvertisementMsg struct {
	Adv bluetooth.Advertisement
}

// NameResolvedMsg carries a name found by the background lookup.
type NameResolvedMsg struct {
	ID   string
	Name string
}

// OpResultMsg reports the outcome of a scan, connect, disconnect or write.
type OpResultMsg struct {
	Op  string
	Err error
}

// ReadResultMsg reports the outcome of a characteristic read.
type ReadResultMsg struct {
	Reading connection.Reading
	Err     error
}
