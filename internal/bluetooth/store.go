package bluetooth

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"ble-gatt-radar.klederson.com/internal/config"
)

// DeviceStore is a thread-safe registry of discovered devices. It keeps
// insertion order and at most one selected device.
type DeviceStore struct {
	mu       sync.RWMutex
	devices  map[string]*Device
	order    []string
	history  map[string]*RSSIRing
	selected string

	now func() time.Time
	rng *rand.Rand
}

// StoreOption configures a DeviceStore.
type StoreOption func(*DeviceStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *DeviceStore) { s.now = now }
}

// WithRand replaces the random source used to place new devices.
func WithRand(r *rand.Rand) StoreOption {
	return func(s *DeviceStore) { s.rng = r }
}

// NewDeviceStore creates a new empty DeviceStore.
func NewDeviceStore(opts ...StoreOption) *DeviceStore {
	s := &DeviceStore{
		devices: make(map[string]*Device),
		history: make(map[string]*RSSIRing),
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record applies an advertisement and reports whether the device is new.
// New devices get a random angle that is kept for their whole life so the
// blip does not jump around; known devices only take the fields the
// advertisement actually carries.
func (s *DeviceStore) Record(adv Advertisement) bool {
	if adv.ID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if existing, ok := s.devices[adv.ID]; ok {
		if adv.Name != "" {
			existing.Name = adv.Name
		}
		if adv.HasRSSI {
			existing.RSSI = adv.RSSI
			existing.HasRSSI = true
			s.history[adv.ID].Push(float64(adv.RSSI))
		}
		if now.After(existing.LastSeen) {
			existing.LastSeen = now
		}
		if adv.Handle != nil {
			existing.handle = adv.Handle
		}
		return false
	}

	d := &Device{
		ID:       adv.ID,
		Name:     adv.Name,
		RSSI:     adv.RSSI,
		HasRSSI:  adv.HasRSSI,
		Angle:    s.rng.Float64() * 2 * math.Pi,
		LastSeen: now,
		handle:   adv.Handle,
	}
	s.devices[adv.ID] = d
	s.order = append(s.order, adv.ID)

	ring := NewRSSIRing(config.RSSIHistoryLen)
	if adv.HasRSSI {
		ring.Push(float64(adv.RSSI))
	}
	s.history[adv.ID] = ring
	return true
}

// SetName sets the name of a known device and reports whether it did.
// Unknown ids are ignored, so a late lookup cannot bring back a device that
// a rescan cleared. Signal strength and last-seen are left alone.
func (s *DeviceStore) SetName(id, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[id]
	if !ok || name == "" {
		return false
	}
	d.Name = name
	return true
}

// Clear removes every device and the selection.
func (s *DeviceStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices = make(map[string]*Device)
	s.history = make(map[string]*RSSIRing)
	s.order = nil
	s.selected = ""
}

// Get returns a copy of the device with the given id.
func (s *DeviceStore) Get(id string) (*Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[id]
	if !ok {
		return nil, false
	}
	cp := *d
	return &cp, true
}

// Snapshot returns copies of all devices in insertion order.
func (s *DeviceStore) Snapshot() []*Device {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Device, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.devices[id]
		result = append(result, &cp)
	}
	return result
}

// Count returns the total number of tracked devices.
func (s *DeviceStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.devices)
}

// History returns the recorded RSSI readings of a device, oldest first.
func (s *DeviceStore) History(id string) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ring, ok := s.history[id]
	if !ok {
		return nil
	}
	return ring.Values()
}

// SetScreenPos records where a device was drawn in the latest frame.
func (s *DeviceStore) SetScreenPos(id string, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.devices[id]; ok {
		d.ScreenX = x
		d.ScreenY = y
		d.Rendered = true
	}
}

// Select marks id as the selected device. Unknown ids leave the selection
// unchanged and return false.
func (s *DeviceStore) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.devices[id]; !ok {
		return false
	}
	s.selected = id
	return true
}

// SelectNext moves the selection delta steps through the insertion order,
// wrapping around. With no selection it starts from the first device (or the
// last one when delta is negative).
func (s *DeviceStore) SelectNext(delta int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.order)
	if n == 0 {
		return "", false
	}

	idx := -1
	for i, id := range s.order {
		if id == s.selected {
			idx = i
			break
		}
	}

	switch {
	case idx < 0 && delta >= 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = ((idx+delta)%n + n) % n
	}
	s.selected = s.order[idx]
	return s.selected, true
}

// ClearSelection drops the selection.
func (s *DeviceStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// SelectedID returns the selected device id, or "" when none.
func (s *DeviceStore) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Selected returns a copy of the selected device.
func (s *DeviceStore) Selected() (*Device, bool) {
	s.mu.RLock()
	id := s.selected
	s.mu.RUnlock()
	if id == "" {
		return nil, false
	}
	return s.Get(id)
}
