package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Blocking operations run as commands and report back with a result message
// so the event loop never waits on the radio.

func (m AppModel) startScanCmd() tea.Cmd {
	s := m.shared
	return func() tea.Msg {
		return OpResultMsg{Op: "Scan", Err: s.manager.StartScan(s.ctx, s.deliver)}
	}
}

func (m AppModel) stopScanCmd() tea.Cmd {
	mgr := m.shared.manager
	return func() tea.Msg {
		return OpResultMsg{Op: "Stop scan", Err: mgr.StopScan()}
	}
}

func (m AppModel) connectCmd() tea.Cmd {
	mgr, timeout := m.shared.manager, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return OpResultMsg{Op: "Connect", Err: mgr.Connect(ctx)}
	}
}

func (m AppModel) disconnectCmd() tea.Cmd {
	mgr := m.shared.manager
	return func() tea.Msg {
		return OpResultMsg{Op: "Disconnect", Err: mgr.Disconnect()}
	}
}

func (m AppModel) readCmd() tea.Cmd {
	mgr, timeout := m.shared.manager, m.timeout
	svc, chr := m.inputs[0].Value(), m.inputs[1].Value()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		r, err := mgr.Read(ctx, svc, chr)
		return ReadResultMsg{Reading: r, Err: err}
	}
}

func (m AppModel) writeCmd() tea.Cmd {
	mgr, timeout := m.shared.manager, m.timeout
	svc, chr, text := m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return OpResultMsg{Op: "Write", Err: mgr.Write(ctx, svc, chr, text)}
	}
}
