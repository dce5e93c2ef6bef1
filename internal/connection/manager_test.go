package connection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ble-gatt-radar.klederson.com/internal/bluetooth"
	"ble-gatt-radar.klederson.com/internal/eventlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uartService = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	uartRX      = "6e400002-b5a3-f393-e0a9-e50e24dcca9e"
)

type fakeCentral struct {
	mu      sync.Mutex
	err     error
	starts  int
	handles []*fakeScanHandle
}

func (c *fakeCentral) StartScan(func(bluetooth.Advertisement)) (bluetooth.ScanHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
	if c.err != nil {
		return nil, c.err
	}
	h := &fakeScanHandle{}
	c.handles = append(c.handles, h)
	return h, nil
}

type fakeScanHandle struct {
	mu    sync.Mutex
	stops int
}

func (h *fakeScanHandle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stops++
	return nil
}

func (h *fakeScanHandle) stopCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stops
}

type fakePeripheral struct {
	connects int
	err      error
	session  *fakeSession
}

func (p *fakePeripheral) Connect(context.Context) (bluetooth.Session, error) {
	p.connects++
	if p.err != nil {
		return nil, p.err
	}
	p.session.connected = true
	return p.session, nil
}

type fakeSession struct {
	connected      bool
	disconnects    int
	serviceLookups int
	charLookups    int
	chars          map[bluetooth.UUID]*fakeChar
}

func newFakeSession() *fakeSession {
	return &fakeSession{chars: map[bluetooth.UUID]*fakeChar{}}
}

func (s *fakeSession) Connected() bool { return s.connected }

func (s *fakeSession) Disconnect() error {
	s.disconnects++
	s.connected = false
	return nil
}

func (s *fakeSession) Service(_ context.Context, id bluetooth.UUID) (bluetooth.Service, error) {
	s.serviceLookups++
	if id != bluetooth.MustParseUUID(uartService) {
		return nil, errors.New("service not found")
	}
	return fakeService{s}, nil
}

type fakeService struct{ s *fakeSession }

func (f fakeService) Characteristic(_ context.Context, id bluetooth.UUID) (bluetooth.Characteristic, error) {
	f.s.charLookups++
	c, ok := f.s.chars[id]
	if !ok {
		return nil, errors.New("characteristic not found")
	}
	return c, nil
}

type fakeChar struct {
	value  []byte
	writes [][]byte
}

func (c *fakeChar) Read(context.Context) ([]byte, error) { return c.value, nil }

func (c *fakeChar) Write(_ context.Context, data []byte) error {
	c.writes = append(c.writes, data)
	return nil
}

type fixture struct {
	store   *bluetooth.DeviceStore
	central *fakeCentral
	periph  *fakePeripheral
	session *fakeSession
	rx      *fakeChar
	log     *eventlog.Log
	mgr     *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   bluetooth.NewDeviceStore(),
		central: &fakeCentral{},
		session: newFakeSession(),
		rx:      &fakeChar{value: []byte("hello")},
		log:     eventlog.New(100),
	}
	f.session.chars[bluetooth.MustParseUUID(uartRX)] = f.rx
	f.periph = &fakePeripheral{session: f.session}
	f.mgr = NewManager(f.store, f.central, f.log)
	return f
}

func (f *fixture) connect(t *testing.T) {
	t.Helper()
	f.store.Record(bluetooth.Advertisement{ID: "A1", Name: "Lamp", RSSI: -60, HasRSSI: true, Handle: f.periph})
	require.True(t, f.store.Select("A1"))
	require.NoError(t, f.mgr.Connect(context.Background()))
}

func (f *fixture) messages() []string {
	var out []string
	for _, e := range f.log.Entries() {
		out = append(out, e.Message)
	}
	return out
}

func TestStartScanClearsRegistry(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"A", "B", "C"} {
		f.store.Record(bluetooth.Advertisement{ID: id})
	}
	f.store.Select("B")

	require.NoError(t, f.mgr.StartScan(context.Background(), func(bluetooth.Advertisement) {}))
	assert.Equal(t, 0, f.store.Count())
	assert.Empty(t, f.store.SelectedID())
	assert.Equal(t, Scanning, f.mgr.State())
	assert.NotZero(t, f.mgr.ScanID())

	f.store.Record(bluetooth.Advertisement{ID: "X"})
	f.store.Select("X")
	assert.Equal(t, Selected, f.mgr.State())
}

func TestStartScanUnavailable(t *testing.T) {
	mgr := NewManager(bluetooth.NewDeviceStore(), nil, eventlog.New(10))
	err := mgr.StartScan(context.Background(), nil)
	assert.ErrorIs(t, err, ErrCapabilityUnavailable)

	f := newFixture(t)
	f.central.err = errors.New("adapter off")
	err = f.mgr.StartScan(context.Background(), nil)
	assert.ErrorIs(t, err, ErrCapabilityUnavailable)
	assert.False(t, f.mgr.Scanning())
}

func TestConcurrentStartScanStartsOnce(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	ready := make(chan struct{})
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-ready
			errs <- f.mgr.StartScan(context.Background(), nil)
		}()
	}
	close(ready)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	f.central.mu.Lock()
	starts := f.central.starts
	f.central.mu.Unlock()
	assert.Equal(t, 1, starts)
	assert.True(t, f.mgr.Scanning())

	var begun int
	for _, msg := range f.messages() {
		if msg == "Starting BLE scan…" {
			begun++
		}
	}
	assert.Equal(t, 1, begun)
}

func TestStartScanRetryAfterFailure(t *testing.T) {
	f := newFixture(t)
	f.central.err = errors.New("adapter off")
	require.Error(t, f.mgr.StartScan(context.Background(), nil))

	f.central.err = nil
	require.NoError(t, f.mgr.StartScan(context.Background(), nil))
	assert.True(t, f.mgr.Scanning())
}

func TestStopScanIdempotent(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.mgr.StopScan())

	require.NoError(t, f.mgr.StartScan(context.Background(), nil))
	require.NoError(t, f.mgr.StopScan())
	require.NoError(t, f.mgr.StopScan())
	assert.Equal(t, 1, f.central.handles[0].stopCount())
	assert.Equal(t, Idle, f.mgr.State())
}

func TestScanStopsWithContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, f.mgr.StartScan(ctx, nil))
	cancel()

	require.Eventually(t, func() bool { return !f.mgr.Scanning() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.central.handles[0].stopCount())
}

func TestConnectWithoutSelection(t *testing.T) {
	f := newFixture(t)
	f.store.Record(bluetooth.Advertisement{ID: "A1", Handle: f.periph})

	err := f.mgr.Connect(context.Background())
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Zero(t, f.periph.connects, "the device must not be contacted")
}

func TestConnectTransportFailure(t *testing.T) {
	f := newFixture(t)
	f.periph.err = errors.New("le-connection-abort-by-local")
	f.store.Record(bluetooth.Advertisement{ID: "A1", Handle: f.periph})
	f.store.Select("A1")

	err := f.mgr.Connect(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
	_, _, ok := f.mgr.Connected()
	assert.False(t, ok)
}

func TestConnectAndDisconnect(t *testing.T) {
	f := newFixture(t)
	f.connect(t)

	id, name, ok := f.mgr.Connected()
	assert.True(t, ok)
	assert.Equal(t, "A1", id)
	assert.Equal(t, "Lamp", name)
	assert.Equal(t, Connected, f.mgr.State())

	require.NoError(t, f.mgr.Disconnect())
	assert.Equal(t, 1, f.session.disconnects)
	_, _, ok = f.mgr.Connected()
	assert.False(t, ok)

	// A second disconnect is only a note.
	require.NoError(t, f.mgr.Disconnect())
	assert.Equal(t, 1, f.session.disconnects)
	assert.Contains(t, f.messages(), "No active connection.")
}

func TestStateFollowsLinkLoss(t *testing.T) {
	f := newFixture(t)
	f.connect(t)
	require.Equal(t, Connected, f.mgr.State())

	f.session.connected = false
	assert.Equal(t, Idle, f.mgr.State())
	_, _, ok := f.mgr.Connected()
	assert.False(t, ok)
	_, err := f.mgr.Read(context.Background(), uartService, uartRX)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestReadWriteRequireConnection(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Read(context.Background(), uartService, uartRX)
	assert.ErrorIs(t, err, ErrNotConnected)
	err = f.mgr.Write(context.Background(), uartService, uartRX, "ON")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestInvalidInputBeforeLookup(t *testing.T) {
	f := newFixture(t)
	f.connect(t)

	tests := []struct {
		name          string
		service, char string
		text          string
	}{
		{"blank service", "  ", uartRX, "ON"},
		{"blank characteristic", uartService, "", "ON"},
		{"malformed service", "not-a-uuid", uartRX, "ON"},
		{"empty payload", uartService, uartRX, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.mgr.Write(context.Background(), tt.service, tt.char, tt.text)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := f.mgr.Read(context.Background(), "", uartRX)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Zero(t, f.session.serviceLookups)
	assert.Empty(t, f.rx.writes)
}

func TestWriteReusesCachedHandle(t *testing.T) {
	f := newFixture(t)
	f.connect(t)

	_, err := f.mgr.Read(context.Background(), uartService, uartRX)
	require.NoError(t, err)
	require.Equal(t, 1, f.session.charLookups)

	require.NoError(t, f.mgr.Write(context.Background(), uartService, uartRX, "ON"))
	assert.Equal(t, 1, f.session.charLookups, "write reuses the read handle")
	require.Len(t, f.rx.writes, 1)
	assert.Equal(t, []byte{79, 78}, f.rx.writes[0])
	assert.Contains(t, f.messages(), `Write: "ON" (bytes: 79 78)`)
}

func TestWriteResolvesForDifferentCharacteristic(t *testing.T) {
	f := newFixture(t)
	other := &fakeChar{}
	otherID := bluetooth.MustParseUUID("6e400003-b5a3-f393-e0a9-e50e24dcca9e")
	f.session.chars[otherID] = other
	f.connect(t)

	_, err := f.mgr.Read(context.Background(), uartService, uartRX)
	require.NoError(t, err)

	require.NoError(t, f.mgr.Write(context.Background(), uartService, otherID.String(), "OFF"))
	assert.Equal(t, 2, f.session.charLookups)
	assert.Empty(t, f.rx.writes)
	require.Len(t, other.writes, 1)
	assert.Equal(t, []byte("OFF"), other.writes[0])
}

func TestWriteWithoutPriorRead(t *testing.T) {
	f := newFixture(t)
	f.connect(t)

	require.NoError(t, f.mgr.Write(context.Background(), uartService, uartRX, "ON"))
	assert.Equal(t, 1, f.session.serviceLookups)
	assert.Equal(t, 1, f.session.charLookups)
	assert.Equal(t, [][]byte{{79, 78}}, f.rx.writes)
}

func TestReadFormatsValue(t *testing.T) {
	f := newFixture(t)
	f.connect(t)

	r, err := f.mgr.Read(context.Background(), uartService, uartRX)
	require.NoError(t, err)
	assert.Equal(t, "hello", r.Text)
	assert.Equal(t, "hello (raw: 104 101 108 108 111)", f.mgr.LastValue())
	assert.Contains(t, f.messages(), "Value read (bytes): 104 101 108 108 111")

	// Reads always resolve again.
	_, err = f.mgr.Read(context.Background(), uartService, uartRX)
	require.NoError(t, err)
	assert.Equal(t, 2, f.session.charLookups)
}

func TestReadUnknownService(t *testing.T) {
	f := newFixture(t)
	f.connect(t)

	_, err := f.mgr.Read(context.Background(), "180f", "2a19")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Empty(t, f.mgr.LastValue())
}

func TestDisconnectDropsCache(t *testing.T) {
	f := newFixture(t)
	f.connect(t)
	_, err := f.mgr.Read(context.Background(), uartService, uartRX)
	require.NoError(t, err)

	require.NoError(t, f.mgr.Disconnect())
	f.connect(t)
	require.NoError(t, f.mgr.Write(context.Background(), uartService, uartRX, "ON"))
	assert.Equal(t, 2, f.session.charLookups)
}

func TestManagerWithMockPeripheral(t *testing.T) {
	store := bluetooth.NewDeviceStore()
	periph := bluetooth.NewMockPeripheral("Thermostat", 87)
	periph.SetLatency(0)
	store.Record(bluetooth.Advertisement{ID: "AA:BB", Name: "Thermostat", Handle: periph})
	store.Select("AA:BB")

	mgr := NewManager(store, &fakeCentral{}, eventlog.New(50))
	require.NoError(t, mgr.Connect(context.Background()))

	r, err := mgr.Read(context.Background(), "180f", "2a19")
	require.NoError(t, err)
	assert.Equal(t, "87 (single byte)", r.String())

	require.NoError(t, mgr.Write(context.Background(), uartService, uartRX, "ON"))
	r, err = mgr.Read(context.Background(), uartService, uartRX)
	require.NoError(t, err)
	assert.Equal(t, "ON (raw: 79 78)", r.String())
}
