// Package connection drives scanning and the GATT session with the selected
// device.
package connection

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ble-gatt-radar.klederson.com/internal/bluetooth"
	"ble-gatt-radar.klederson.com/internal/eventlog"
	"github.com/oklog/ulid/v2"
)

// State is the coarse application state derived from the manager.
type State int

const (
	Idle State = iota
	Scanning
	Selected
	Connected
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "SCANNING"
	case Selected:
		return "SELECTED"
	case Connected:
		return "CONNECTED"
	default:
		return "IDLE"
	}
}

// charCache is the characteristic handle resolved by the last read or write.
type charCache struct {
	service bluetooth.UUID
	char    bluetooth.UUID
	handle  bluetooth.Characteristic
}

// Manager owns the scan and the single GATT session.
type Manager struct {
	store   *bluetooth.DeviceStore
	central bluetooth.Central
	log     *eventlog.Log

	// opMu serialises connect, disconnect, read and write.
	opMu sync.Mutex

	mu         sync.RWMutex
	starting   bool // a StartScan is between its check and the central call
	scan       bluetooth.ScanHandle
	stopScan   context.CancelFunc
	scanID     ulid.ULID
	session    bluetooth.Session
	deviceID   string
	deviceName string
	cache      *charCache
	lastValue  string
}

// NewManager creates a manager. A nil central means the host has no usable
// Bluetooth capability.
func NewManager(store *bluetooth.DeviceStore, central bluetooth.Central, log *eventlog.Log) *Manager {
	return &Manager{
		store:   store,
		central: central,
		log:     log,
	}
}

// StartScan clears the registry and starts delivering advertisements to
// onAdvertisement. The scan stops when ctx is done or StopScan is called.
func (m *Manager) StartScan(ctx context.Context, onAdvertisement func(bluetooth.Advertisement)) error {
	if m.central == nil {
		return fmt.Errorf("%w: scanning is not supported on this host", ErrCapabilityUnavailable)
	}

	m.mu.Lock()
	if m.scan != nil || m.starting {
		m.mu.Unlock()
		m.log.Info("Scan already running.")
		return nil
	}
	m.starting = true
	m.mu.Unlock()

	m.store.Clear()
	m.log.Info("Starting BLE scan…")

	handle, err := m.central.StartScan(onAdvertisement)
	if err != nil {
		m.mu.Lock()
		m.starting = false
		m.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrCapabilityUnavailable, err)
	}

	id := ulid.Make()
	scanCtx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.starting = false
	m.scan = handle
	m.stopScan = cancel
	m.scanID = id
	m.mu.Unlock()
	m.log.Info("Scan started (session %s).", id)

	go func() {
		<-scanCtx.Done()
		m.mu.RLock()
		current := m.scan == handle
		m.mu.RUnlock()
		if current {
			_ = m.StopScan()
		}
	}()
	return nil
}

// StopScan stops the running scan. Calling it without a scan is a no-op.
func (m *Manager) StopScan() error {
	m.mu.Lock()
	handle, cancel := m.scan, m.stopScan
	m.scan, m.stopScan = nil, nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if handle == nil {
		return nil
	}
	m.log.Info("Scan stopped.")
	if err := handle.Stop(); err != nil {
		return fmt.Errorf("%w: stop scan: %w", ErrTransport, err)
	}
	return nil
}

// Connect opens a GATT session with the selected device.
func (m *Manager) Connect(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	id := m.store.SelectedID()
	if id == "" {
		return ErrNoSelection
	}
	dev, ok := m.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: device %s is no longer known", ErrNoSelection, id)
	}
	handle := dev.Handle()
	if handle == nil {
		return fmt.Errorf("%w: device %s is not connectable", ErrCapabilityUnavailable, id)
	}

	m.dropSession()

	m.log.Info("Connecting to device: %s", dev.DisplayName())
	session, err := handle.Connect(ctx)
	if err != nil {
		return fmt.Errorf("%w: connect %s: %w", ErrTransport, dev.DisplayName(), err)
	}

	m.mu.Lock()
	m.session = session
	m.deviceID = dev.ID
	m.deviceName = dev.DisplayName()
	m.cache = nil
	m.mu.Unlock()

	m.log.Info("GATT server connected.")
	return nil
}

// Disconnect closes the session. Without an active session it only notes
// that fact. The manager always ends up disconnected.
func (m *Manager) Disconnect() error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	session := m.session
	m.session = nil
	m.deviceID = ""
	m.deviceName = ""
	m.cache = nil
	m.mu.Unlock()

	if session == nil || !session.Connected() {
		m.log.Info("No active connection.")
		return nil
	}

	m.log.Info("Disconnecting from device…")
	if err := session.Disconnect(); err != nil {
		return fmt.Errorf("%w: disconnect: %w", ErrTransport, err)
	}
	return nil
}

// Read resolves the characteristic, reads it and stores the formatted value
// as the last value.
func (m *Manager) Read(ctx context.Context, serviceID, charID string) (Reading, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	session, err := m.activeSession()
	if err != nil {
		return Reading{}, err
	}
	svc, chr, err := parseIDs(serviceID, charID)
	if err != nil {
		return Reading{}, err
	}

	handle, err := m.resolve(ctx, session, svc, chr, serviceID, charID)
	if err != nil {
		return Reading{}, err
	}

	m.log.Info("Reading value…")
	raw, err := handle.Read(ctx)
	if err != nil {
		return Reading{}, fmt.Errorf("%w: read: %w", ErrTransport, err)
	}
	m.log.Info("Value read (bytes): %s", FormatBytes(raw))

	r := NewReading(raw)
	m.mu.Lock()
	m.lastValue = r.String()
	m.mu.Unlock()
	return r, nil
}

// Write sends text as UTF-8 to the characteristic. The handle resolved by a
// previous read or write is reused when it belongs to the same service and
// characteristic.
func (m *Manager) Write(ctx context.Context, serviceID, charID, text string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	session, err := m.activeSession()
	if err != nil {
		return err
	}
	svc, chr, err := parseIDs(serviceID, charID)
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("%w: no data to send", ErrInvalidInput)
	}

	m.mu.RLock()
	cache := m.cache
	m.mu.RUnlock()

	var handle bluetooth.Characteristic
	if cache != nil && cache.service == svc && cache.char == chr {
		handle = cache.handle
	} else {
		handle, err = m.resolve(ctx, session, svc, chr, serviceID, charID)
		if err != nil {
			return err
		}
	}

	data := []byte(strings.ToValidUTF8(text, "�"))
	m.log.Info("Write: %q (bytes: %s)", text, FormatBytes(data))
	if err := handle.Write(ctx, data); err != nil {
		return fmt.Errorf("%w: write: %w", ErrTransport, err)
	}
	m.log.Info("Command sent.")
	return nil
}

// State reports the coarse state for the status bar.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch {
	case m.session != nil && m.session.Connected():
		return Connected
	case m.scan != nil && m.store.SelectedID() != "":
		return Selected
	case m.scan != nil:
		return Scanning
	default:
		return Idle
	}
}

// Scanning reports whether a scan is running.
func (m *Manager) Scanning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scan != nil
}

// Connected reports whether a session is open, and with which device.
func (m *Manager) Connected() (id, name string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil || !m.session.Connected() {
		return "", "", false
	}
	return m.deviceID, m.deviceName, true
}

// LastValue returns the formatted value of the last successful read.
func (m *Manager) LastValue() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastValue
}

// ScanID returns the id of the current or last scan session.
func (m *Manager) ScanID() ulid.ULID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scanID
}

func (m *Manager) activeSession() (bluetooth.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil || !m.session.Connected() {
		return nil, ErrNotConnected
	}
	return m.session, nil
}

// dropSession silently closes a session left over from a previous connect.
func (m *Manager) dropSession() {
	m.mu.Lock()
	session := m.session
	m.session = nil
	m.cache = nil
	m.mu.Unlock()
	if session != nil && session.Connected() {
		_ = session.Disconnect()
	}
}

// resolve looks the characteristic up and caches it.
func (m *Manager) resolve(ctx context.Context, session bluetooth.Session, svc, chr bluetooth.UUID, serviceID, charID string) (bluetooth.Characteristic, error) {
	m.log.Info("Searching service: %s", strings.TrimSpace(serviceID))
	service, err := session.Service(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("%w: service %s: %w", ErrTransport, svc, err)
	}

	m.log.Info("Searching characteristic: %s", strings.TrimSpace(charID))
	handle, err := service.Characteristic(ctx, chr)
	if err != nil {
		return nil, fmt.Errorf("%w: characteristic %s: %w", ErrTransport, chr, err)
	}

	m.mu.Lock()
	m.cache = &charCache{service: svc, char: chr, handle: handle}
	m.mu.Unlock()
	return handle, nil
}

func parseIDs(serviceID, charID string) (svc, chr bluetooth.UUID, err error) {
	if strings.TrimSpace(serviceID) == "" || strings.TrimSpace(charID) == "" {
		return bluetooth.UUID{}, bluetooth.UUID{}, fmt.Errorf("%w: service and characteristic UUIDs are required", ErrInvalidInput)
	}
	svc, err = bluetooth.ParseUUID(serviceID)
	if err != nil {
		return bluetooth.UUID{}, bluetooth.UUID{}, fmt.Errorf("%w: service: %w", ErrInvalidInput, err)
	}
	chr, err = bluetooth.ParseUUID(charID)
	if err != nil {
		return bluetooth.UUID{}, bluetooth.UUID{}, fmt.Errorf("%w: characteristic: %w", ErrInvalidInput, err)
	}
	return svc, chr, nil
}
