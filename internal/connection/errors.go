package connection

import "errors"

var (
	// ErrCapabilityUnavailable is returned when the host cannot scan or connect.
	ErrCapabilityUnavailable = errors.New("bluetooth capability unavailable")

	// ErrNoSelection is returned when an operation needs a selected device.
	ErrNoSelection = errors.New("no device selected")

	// ErrNotConnected is returned by GATT operations without an open session.
	ErrNotConnected = errors.New("not connected to any device")

	// ErrInvalidInput is returned for blank or malformed UUIDs and empty payloads.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransport wraps failures reported by the device or the host stack.
	ErrTransport = errors.New("transport error")
)
