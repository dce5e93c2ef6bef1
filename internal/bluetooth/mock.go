package bluetooth

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"ble-gatt-radar.klederson.com/internal/config"
)

// Demo GATT layout shared by every simulated peripheral.
var (
	BatteryService      = MustParseUUID("180f")
	BatteryLevel        = MustParseUUID("2a19")
	DeviceInfoService   = MustParseUUID("180a")
	ManufacturerNameChr = MustParseUUID("2a29")
	UARTService         = MustParseUUID("6e400001-b5a3-f393-e0a9-e50e24dcca9e")
	UARTRX              = MustParseUUID("6e400002-b5a3-f393-e0a9-e50e24dcca9e")
)

var mockDeviceNames = []string{
	"iPhone 15 Pro",
	"Galaxy S24",
	"Pixel 9 Pro",
	"AirPods Pro",
	"Apple Watch",
	"Fitbit Charge 6",
	"Tile Tracker",
	"Mi Band 8",
	"ESP32-LED",
	"RuuviTag",
	"Polar H10",
	"Nordic_UART",
	"Thermo Beacon",
	"Govee H5075",
}

type mockDevice struct {
	id        string
	name      string
	baseRSSI  float64
	phase     float64
	amplitude float64
	active    bool
	periph    *MockPeripheral
}

// MockScanner generates fake advertisers for demo mode. Every fake device is
// also a MockPeripheral that accepts GATT sessions.
type MockScanner struct {
	mu      sync.Mutex
	rng     *rand.Rand
	devices []mockDevice
	cancel  context.CancelFunc
	period  time.Duration
}

// NewMockScanner creates a mock scanner with random fake devices.
func NewMockScanner(seed int64) *MockScanner {
	rng := rand.New(rand.NewSource(seed))

	total := config.DemoDeviceMin + rng.Intn(config.DemoDeviceMax-config.DemoDeviceMin+1)
	if total > len(mockDeviceNames) {
		total = len(mockDeviceNames)
	}

	perm := rng.Perm(len(mockDeviceNames))
	devices := make([]mockDevice, total)
	for i := range devices {
		name := mockDeviceNames[perm[i]]
		devices[i] = mockDevice{
			id:        randomMAC(rng),
			name:      name,
			baseRSSI:  -45 - rng.Float64()*50, // -45 to -95 dBm
			phase:     rng.Float64() * 2 * math.Pi,
			amplitude: 2 + rng.Float64()*6,
			active:    true,
			periph:    NewMockPeripheral(name, byte(20+rng.Intn(81))),
		}
	}

	return &MockScanner{rng: rng, devices: devices, period: 200 * time.Millisecond}
}

// StartScan begins emitting fake advertisements.
func (s *MockScanner) StartScan(onAdvertisement func(Advertisement)) (ScanHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil, fmt.Errorf("scan already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.loop(ctx, onAdvertisement)
	return &mockScanHandle{scanner: s}, nil
}

func (s *MockScanner) loop(ctx context.Context, onAdvertisement func(Advertisement)) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	t := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t += s.period.Seconds()
			for _, adv := range s.emit(t) {
				onAdvertisement(adv)
			}
		}
	}
}

func (s *MockScanner) emit(t float64) []Advertisement {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Advertisement
	for i := range s.devices {
		d := &s.devices[i]

		// Devices wander in and out of range so stale blips fade.
		if s.rng.Float64() < 0.004 {
			d.active = !d.active
		}
		if !d.active {
			continue
		}

		rssi := d.baseRSSI + d.amplitude*math.Sin(t*0.5+d.phase) + (s.rng.Float64()-0.5)*4
		adv := Advertisement{
			ID:      d.id,
			Name:    d.name,
			RSSI:    int16(rssi),
			HasRSSI: true,
			Handle:  d.periph,
		}
		// Real advertisements often carry only part of the fields.
		if s.rng.Float64() < 0.05 {
			adv.Name = ""
		}
		if s.rng.Float64() < 0.03 {
			adv.HasRSSI = false
			adv.RSSI = 0
		}
		out = append(out, adv)
	}
	return out
}

func (s *MockScanner) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

type mockScanHandle struct {
	scanner *MockScanner
}

func (h *mockScanHandle) Stop() error {
	h.scanner.stop()
	return nil
}

func randomMAC(rng *rand.Rand) string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = byte(rng.Intn(256))
	}
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", b[0], b[1], b[2], b[3], b[4], b[5])
}

// MockPeripheral is an in-memory GATT server: a battery service, a device
// information service and a Nordic UART style service whose RX
// characteristic stores whatever is written to it.
type MockPeripheral struct {
	mu        sync.Mutex
	name      string
	latency   time.Duration
	values    map[UUID]map[UUID][]byte
	connected bool
}

// NewMockPeripheral creates a peripheral reporting the given battery level.
func NewMockPeripheral(name string, battery byte) *MockPeripheral {
	return &MockPeripheral{
		name:    name,
		latency: 150 * time.Millisecond,
		values: map[UUID]map[UUID][]byte{
			BatteryService:    {BatteryLevel: {battery}},
			DeviceInfoService: {ManufacturerNameChr: []byte(name)},
			UARTService:       {UARTRX: []byte("ready")},
		},
	}
}

// SetLatency changes the simulated round-trip time of every GATT call.
func (p *MockPeripheral) SetLatency(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latency = d
}

func (p *MockPeripheral) wait(ctx context.Context) error {
	p.mu.Lock()
	latency := p.latency
	p.mu.Unlock()
	if latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Connect opens a simulated GATT session.
func (p *MockPeripheral) Connect(ctx context.Context) (Session, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = true
	return &mockSession{periph: p}, nil
}

type mockSession struct {
	periph *MockPeripheral
}

func (s *mockSession) Connected() bool {
	s.periph.mu.Lock()
	defer s.periph.mu.Unlock()
	return s.periph.connected
}

func (s *mockSession) Disconnect() error {
	s.periph.mu.Lock()
	defer s.periph.mu.Unlock()
	if !s.periph.connected {
		return fmt.Errorf("%s: not connected", s.periph.name)
	}
	s.periph.connected = false
	return nil
}

func (s *mockSession) Service(ctx context.Context, id UUID) (Service, error) {
	if err := s.periph.wait(ctx); err != nil {
		return nil, err
	}
	s.periph.mu.Lock()
	defer s.periph.mu.Unlock()
	if !s.periph.connected {
		return nil, fmt.Errorf("%s: not connected", s.periph.name)
	}
	if _, ok := s.periph.values[id]; !ok {
		return nil, fmt.Errorf("service %s not found", id)
	}
	return &mockService{periph: s.periph, id: id}, nil
}

type mockService struct {
	periph *MockPeripheral
	id     UUID
}

func (s *mockService) Characteristic(ctx context.Context, id UUID) (Characteristic, error) {
	if err := s.periph.wait(ctx); err != nil {
		return nil, err
	}
	s.periph.mu.Lock()
	defer s.periph.mu.Unlock()
	if _, ok := s.periph.values[s.id][id]; !ok {
		return nil, fmt.Errorf("characteristic %s not found", id)
	}
	return &mockCharacteristic{periph: s.periph, service: s.id, id: id}, nil
}

type mockCharacteristic struct {
	periph  *MockPeripheral
	service UUID
	id      UUID
}

func (c *mockCharacteristic) Read(ctx context.Context) ([]byte, error) {
	if err := c.periph.wait(ctx); err != nil {
		return nil, err
	}
	c.periph.mu.Lock()
	defer c.periph.mu.Unlock()
	if !c.periph.connected {
		return nil, fmt.Errorf("%s: not connected", c.periph.name)
	}
	return append([]byte(nil), c.periph.values[c.service][c.id]...), nil
}

func (c *mockCharacteristic) Write(ctx context.Context, data []byte) error {
	if err := c.periph.wait(ctx); err != nil {
		return err
	}
	c.periph.mu.Lock()
	defer c.periph.mu.Unlock()
	if !c.periph.connected {
		return fmt.Errorf("%s: not connected", c.periph.name)
	}
	c.periph.values[c.service][c.id] = append([]byte(nil), data...)
	return nil
}
