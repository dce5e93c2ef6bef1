package bluetooth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ble-gatt-radar.klederson.com/internal/config"
	"tinygo.org/x/bluetooth"
)

// ErrNoAdapter is returned when the host adapter cannot be enabled.
var ErrNoAdapter = errors.New("bluetooth adapter unavailable")

// BLEScanner is the Central backed by the host Bluetooth adapter (BlueZ on
// Linux, CoreBluetooth on macOS, WinRT on Windows).
type BLEScanner struct {
	adapter *bluetooth.Adapter

	mu      sync.Mutex
	enabled bool
	running bool
}

// NewBLEScanner creates a scanner on the default adapter.
func NewBLEScanner() *BLEScanner {
	return &BLEScanner{
		adapter: bluetooth.DefaultAdapter,
	}
}

func (s *BLEScanner) enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		return nil
	}
	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("%w: %v (try running with sudo or setcap cap_net_admin+ep)", ErrNoAdapter, err)
	}
	s.enabled = true
	return nil
}

// StartScan begins BLE scanning in a goroutine.
func (s *BLEScanner) StartScan(onAdvertisement func(Advertisement)) (ScanHandle, error) {
	if err := s.enable(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, errors.New("scan already running")
	}
	s.running = true
	s.mu.Unlock()

	h := &bleScanHandle{scanner: s, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		_ = s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if h.isStopped() {
				return
			}
			onAdvertisement(Advertisement{
				ID:      result.Address.String(),
				Name:    advertisedName(result),
				RSSI:    result.RSSI,
				HasRSSI: result.RSSI != 0,
				Handle:  &blePeripheral{adapter: adapter, address: result.Address},
			})
		})
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()
	return h, nil
}

// advertisedName returns the local name, or a manufacturer based name for
// devices that only advertise manufacturer data.
func advertisedName(result bluetooth.ScanResult) string {
	if name := result.LocalName(); name != "" {
		return name
	}
	for _, m := range result.ManufacturerData() {
		if vendor := LookupManufacturer(m.CompanyID); vendor != "" {
			return vendor + " " + addressSuffix(result.Address.String())
		}
	}
	return ""
}

type bleScanHandle struct {
	scanner *BLEScanner
	once    sync.Once
	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

func (h *bleScanHandle) isStopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

// Stop halts the scan. Calling it more than once is harmless.
func (h *bleScanHandle) Stop() error {
	var err error
	h.once.Do(func() {
		h.mu.Lock()
		h.stopped = true
		h.mu.Unlock()
		err = h.scanner.adapter.StopScan()
	})
	return err
}

type blePeripheral struct {
	adapter *bluetooth.Adapter
	address bluetooth.Address
}

func (p *blePeripheral) Connect(ctx context.Context) (Session, error) {
	type result struct {
		dev bluetooth.Device
		err error
	}
	ch := make(chan result, 1)
	go func() {
		dev, err := p.adapter.Connect(p.address, bluetooth.ConnectionParams{})
		ch <- result{dev, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		return &bleSession{device: r.dev, connected: true}, nil
	case <-ctx.Done():
		// Tear down a connection that completes after we gave up on it.
		go func() {
			if r := <-ch; r.err == nil {
				_ = r.dev.Disconnect()
			}
		}()
		return nil, ctx.Err()
	}
}

type bleSession struct {
	mu        sync.Mutex
	device    bluetooth.Device
	connected bool
}

func (s *bleSession) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *bleSession) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil
	}
	s.connected = false
	return s.device.Disconnect()
}

func (s *bleSession) Service(ctx context.Context, id UUID) (Service, error) {
	var services []bluetooth.DeviceService
	err := runWithContext(ctx, func() error {
		var err error
		services, err = s.device.DiscoverServices([]bluetooth.UUID{id})
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("service %s not found", id)
	}
	return &bleService{service: services[0]}, nil
}

type bleService struct {
	service bluetooth.DeviceService
}

func (s *bleService) Characteristic(ctx context.Context, id UUID) (Characteristic, error) {
	var chars []bluetooth.DeviceCharacteristic
	err := runWithContext(ctx, func() error {
		var err error
		chars, err = s.service.DiscoverCharacteristics([]bluetooth.UUID{id})
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(chars) == 0 {
		return nil, fmt.Errorf("characteristic %s not found", id)
	}
	return &bleCharacteristic{char: chars[0]}, nil
}

type bleCharacteristic struct {
	char bluetooth.DeviceCharacteristic
}

func (c *bleCharacteristic) Read(ctx context.Context) ([]byte, error) {
	buf := make([]byte, config.MaxAttributeLen)
	var n int
	err := runWithContext(ctx, func() error {
		var err error
		n, err = c.char.Read(buf)
		return err
	})
	if err != nil {
		return nil, err
	}
	if n > len(buf) {
		n = len(buf)
	}
	return buf[:n], nil
}

// Write sends data as a write command. BlueZ only exposes the unacknowledged
// write through the host stack.
func (c *bleCharacteristic) Write(ctx context.Context, data []byte) error {
	return runWithContext(ctx, func() error {
		_, err := c.char.WriteWithoutResponse(data)
		return err
	})
}

// runWithContext runs a blocking host call and gives up waiting when ctx is
// done. The call itself keeps running; the host stack has no cancellation.
func runWithContext(ctx context.Context, fn func() error) error {
	ch := make(chan error, 1)
	go func() { ch <- fn() }()
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
