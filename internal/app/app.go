package app

import (
	"context"
	"errors"
	"strconv"
	"time"

	"ble-gatt-radar.klederson.com/internal/bluetooth"
	"ble-gatt-radar.klederson.com/internal/config"
	"ble-gatt-radar.klederson.com/internal/connection"
	"ble-gatt-radar.klederson.com/internal/eventlog"
	"ble-gatt-radar.klederson.com/internal/radar"
	"ble-gatt-radar.klederson.com/internal/ui"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type focusArea int

const (
	focusRadar focusArea = iota
	focusService
	focusChar
	focusPayload
	focusLog
	focusCount
)

const (
	logPanelHeight    = 9
	detailPanelHeight = 13
	minSideWidth      = 36
	maxSideWidth      = 52
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	store    *bluetooth.DeviceStore
	sweep    *radar.Sweep
	manager  *connection.Manager
	resolver *bluetooth.NameResolver // nil when name lookups are off
	log      *eventlog.Log
	send     func(tea.Msg)

	ctx    context.Context
	cancel context.CancelFunc
}

// deliver forwards an advertisement into the event loop.
func (s *shared) deliver(adv bluetooth.Advertisement) {
	if s.send != nil {
		s.send(AdvertisementMsg{Adv: adv})
	}
}

// deliverName forwards a looked-up device name into the event loop.
func (s *shared) deliverName(id, name string) {
	if s.send != nil {
		s.send(NameResolvedMsg{ID: id, Name: name})
	}
}

// Options configures the application model.
type Options struct {
	Demo          bool
	Adapter       string
	Central       bluetooth.Central // nil when the host cannot scan
	Log           *eventlog.Log
	Timeout       time.Duration
	FrameInterval time.Duration
	GATT          config.GATTConfig
	Now           func() time.Time

	// ResolveNames asks unnamed devices for their name in the background.
	ResolveNames bool
	NameLookup   bluetooth.NameLookup // nil uses hcitool
}

// AppModel is the root Bubble Tea model for the GATT radar.
type AppModel struct {
	width  int
	height int

	demo     bool
	adapter  string
	timeout  time.Duration
	interval time.Duration
	now      func() time.Time

	focus      focusArea
	inputs     []textinput.Model
	logView    viewport.Model
	logVersion uint64

	shared *shared

	// Cached per frame
	devices []*bluetooth.Device
	frame   radar.Frame
}

// New creates a new AppModel.
func New(opts Options) AppModel {
	if opts.Log == nil {
		opts.Log = eventlog.New(config.LogCapacity)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = config.OperationTimeout
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = time.Second / config.TargetFPS
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	store := bluetooth.NewDeviceStore(bluetooth.WithClock(opts.Now))
	ctx, cancel := context.WithCancel(context.Background())
	sh := &shared{
		store:   store,
		sweep:   radar.NewSweep(),
		manager: connection.NewManager(store, opts.Central, opts.Log),
		log:     opts.Log,
		ctx:     ctx,
		cancel:  cancel,
	}
	if opts.ResolveNames {
		sh.resolver = bluetooth.NewNameResolver(opts.NameLookup, sh.deliverName)
	}

	return AppModel{
		demo:     opts.Demo,
		adapter:  opts.Adapter,
		timeout:  opts.Timeout,
		interval: opts.FrameInterval,
		now:      opts.Now,
		inputs: []textinput.Model{
			newInput("service UUID, e.g. 180f", opts.GATT.Service),
			newInput("characteristic UUID, e.g. 2a19", opts.GATT.Characteristic),
			newInput("text to write, e.g. ON", opts.GATT.Payload),
		},
		logView: viewport.New(0, 0),
		shared:  sh,
	}
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.SetValue(value)
	return ti
}

// Attach connects the model to the running program so that scanner
// goroutines can post advertisements. Must be called before p.Run().
func (m *AppModel) Attach(p *tea.Program) {
	m.shared.send = p.Send
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.startScanCmd(),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case TickMsg:
		m.shared.sweep.Advance()
		m.refreshFrame()
		m.syncLog()
		return m, m.tickCmd()

	case AdvertisementMsg:
		m.recordAdvertisement(msg.Adv)
		return m, nil

	case NameResolvedMsg:
		if m.shared.store.SetName(msg.ID, msg.Name) {
			m.shared.log.Info("Resolved name: %s (%s)", msg.Name, msg.ID)
		}
		return m, nil

	case OpResultMsg:
		if msg.Err != nil {
			m.logFailure(msg.Op, msg.Err)
		}
		m.syncLog()
		return m, nil

	case ReadResultMsg:
		if msg.Err != nil {
			m.logFailure("Read", msg.Err)
		}
		m.syncLog()
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, m.quit()
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case "esc":
		if m.focus == focusRadar {
			m.shared.store.ClearSelection()
		}
		m.setFocus(focusRadar)
		return m, nil
	}

	if idx, ok := m.inputIndex(); ok {
		if msg.Type == tea.KeyEnter {
			if m.focus == focusPayload {
				return m, m.writeCmd()
			}
			m.setFocus(m.focus + 1)
			return m, nil
		}
		var cmd tea.Cmd
		m.inputs[idx], cmd = m.inputs[idx].Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "Q":
		return m, m.quit()
	case "s", "S":
		return m, m.startScanCmd()
	case "x", "X":
		return m, m.stopScanCmd()
	case "c", "C":
		return m, m.connectCmd()
	case "d", "D":
		return m, m.disconnectCmd()
	case "r", "R":
		return m, m.readCmd()
	case "w", "W":
		return m, m.writeCmd()
	case "l", "L":
		m.shared.log.Clear()
		m.syncLog()
		return m, nil
	}

	if m.focus == focusLog {
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		m.selectNext(-1)
	case "down", "j":
		m.selectNext(1)
	}
	return m, nil
}

func (m AppModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.click(msg.X, msg.Y)
		return m, nil
	}
	if tea.MouseEvent(msg).IsWheel() {
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}
	return m, nil
}

// click selects the blip nearest to the clicked radar cell.
func (m *AppModel) click(x, y int) {
	p := m.panes()
	col, row := x-radarOriginX, y-radarOriginY
	if col < 0 || row < 0 || col >= p.radarCols || row >= p.radarRows {
		return
	}
	m.setFocus(focusRadar)

	px, py := radar.CellCenter(col, row)
	id, ok := radar.HitTest(m.shared.store.Snapshot(), px, py, config.HitRadius)
	if !ok {
		return
	}
	if m.shared.store.Select(id) {
		m.logSelection(id)
	}
}

func (m *AppModel) selectNext(delta int) {
	if id, ok := m.shared.store.SelectNext(delta); ok {
		m.logSelection(id)
	}
}

func (m *AppModel) logSelection(id string) {
	if d, ok := m.shared.store.Get(id); ok {
		m.shared.log.Info("Selected device: %s (%s)", d.DisplayName(), d.ID)
	}
}

// recordAdvertisement applies an advertisement while a scan is running.
func (m *AppModel) recordAdvertisement(adv bluetooth.Advertisement) {
	if !m.shared.manager.Scanning() {
		return
	}
	if !m.shared.store.Record(adv) {
		return
	}
	rssi := "n/a"
	if adv.HasRSSI {
		rssi = strconv.Itoa(int(adv.RSSI))
	}
	name := adv.Name
	if name == "" {
		name = bluetooth.UnknownName
		if m.shared.resolver != nil {
			m.shared.resolver.RequestResolve(adv.ID)
		}
	}
	m.shared.log.Info("New device: %s (RSSI: %s)", name, rssi)
}

// refreshFrame lays out the radar for the current panel size and records
// where every blip was drawn.
func (m *AppModel) refreshFrame() {
	p := m.panes()
	m.devices = m.shared.store.Snapshot()
	w, h := radar.CanvasSize(p.radarCols, p.radarRows)
	m.frame = radar.Layout(w, h, m.devices, m.shared.store.SelectedID(), m.shared.sweep.Angle, m.now())
	m.frame.Record(m.shared.store)
}

// syncLog refreshes the log viewport when the event log changed.
func (m *AppModel) syncLog() {
	v := m.shared.log.Version()
	if v == m.logVersion {
		return
	}
	m.logVersion = v
	atBottom := m.logView.AtBottom() || m.logView.TotalLineCount() <= m.logView.Height
	m.logView.SetContent(ui.FormatLog(m.shared.log.Entries()))
	if atBottom {
		m.logView.GotoBottom()
	}
}

// logFailure writes an operation failure to the event log. Input and state
// problems are warnings, everything else is an error.
func (m *AppModel) logFailure(op string, err error) {
	switch {
	case errors.Is(err, connection.ErrNoSelection),
		errors.Is(err, connection.ErrNotConnected),
		errors.Is(err, connection.ErrInvalidInput):
		m.shared.log.Warn("%s: %v", op, err)
	default:
		m.shared.log.Error("%s failed: %v", op, err)
	}
}

func (m *AppModel) setFocus(f focusArea) {
	m.focus = f
	for i := range m.inputs {
		if focusArea(i)+focusService == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m AppModel) inputIndex() (int, bool) {
	if m.focus >= focusService && m.focus <= focusPayload {
		return int(m.focus - focusService), true
	}
	return 0, false
}

func (m AppModel) quit() tea.Cmd {
	_ = m.shared.manager.StopScan()
	if _, _, ok := m.shared.manager.Connected(); ok {
		_ = m.shared.manager.Disconnect()
	}
	if m.shared.resolver != nil {
		m.shared.resolver.Stop()
	}
	m.shared.cancel()
	return tea.Quit
}

func (m AppModel) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
