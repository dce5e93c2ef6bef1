package app

import (
	"ble-gatt-radar.klederson.com/internal/radar"
	"ble-gatt-radar.klederson.com/internal/ui"
)

// The radar content starts inside the panel border, below the menu bar.
const (
	radarOriginX = 1
	radarOriginY = 2
)

// panes is the size of every panel for the current terminal.
type panes struct {
	radarW, sideW int
	midH, logH    int
	listH         int

	// Cells available to the radar itself.
	radarCols, radarRows int
}

func (m AppModel) panes() panes {
	var p panes

	p.logH = logPanelHeight
	p.midH = m.height - 2 - p.logH
	if p.midH < 12 {
		p.logH = max(4, m.height-2-12)
		p.midH = m.height - 2 - p.logH
	}

	p.sideW = min(max(m.width*2/5, minSideWidth), maxSideWidth)
	p.radarW = m.width - p.sideW

	p.listH = p.midH - detailPanelHeight - ui.FormPanelHeight(len(m.inputs))

	p.radarCols = p.radarW - 2
	p.radarRows = p.midH - 3
	return p
}

// resize fits the inputs and the log viewport to the window.
func (m *AppModel) resize() {
	p := m.panes()
	for i := range m.inputs {
		m.inputs[i].Width = max(8, p.sideW-20)
	}
	m.logView.Width = max(1, m.width-4)
	m.logView.Height = max(1, p.logH-3)
	m.logView.MouseWheelEnabled = true
	m.logVersion = 0
	m.syncLog()
	m.refreshFrame()
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing GATT radar..."
	}

	p := m.panes()
	mgr := m.shared.manager
	state := mgr.State().String()

	menuBar := ui.RenderMenuBar(m.width, m.adapter, m.demo, state)

	radarContent := radar.Render(p.radarCols, p.radarRows, m.frame)
	legend := radar.RenderLegend(p.radarCols)
	radarPanel := ui.RenderRadarPanel(p.radarW, p.midH, radarContent, legend, m.focus == focusRadar)

	detail := ui.Detail{Now: m.now(), LastValue: mgr.LastValue()}
	if d, ok := m.shared.store.Selected(); ok {
		detail.Device = d
		detail.History = m.shared.store.History(d.ID)
	}
	_, detail.ConnectedName, detail.Connected = mgr.Connected()

	fields := []ui.FormField{
		{Label: "Service", View: m.inputs[0].View()},
		{Label: "Characteristic", View: m.inputs[1].View()},
		{Label: "Payload", View: m.inputs[2].View()},
	}
	_, inputFocused := m.inputIndex()

	side := ui.ComposeSide(
		ui.RenderDetailPanel(detail, p.sideW, detailPanelHeight),
		ui.RenderFormPanel(fields, p.sideW, inputFocused),
	)
	if p.listH >= 5 {
		side = ui.ComposeSide(side, ui.RenderDeviceList(m.devices, m.shared.store.SelectedID(), p.sideW, p.listH, false))
	}

	logPanel := ui.RenderLogPanel(m.logView.View(), m.shared.log.Len(), m.width, p.logH, m.focus == focusLog)

	selected := ""
	if detail.Device != nil {
		selected = detail.Device.DisplayName()
	}
	scanID := ""
	if mgr.Scanning() {
		scanID = mgr.ScanID().String()
	}
	statusBar := ui.RenderStatusBar(m.width, ui.StatusInfo{
		State:    state,
		Devices:  m.shared.store.Count(),
		Selected: selected,
		SweepDeg: m.shared.sweep.Degrees(),
		ScanID:   scanID,
	})

	return ui.ComposeLayout(menuBar, radarPanel, side, logPanel, statusBar)
}
