package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"ble-gatt-radar.klederson.com/internal/eventlog"
)

// FormatLog styles log entries by level, one per line.
func FormatLog(entries []eventlog.Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		switch {
		case e.Level >= slog.LevelError:
			lines[i] = StyleLogError.Render(e.String())
		case e.Level >= slog.LevelWarn:
			lines[i] = StyleLogWarn.Render(e.String())
		default:
			lines[i] = StyleLogInfo.Render(e.String())
		}
	}
	return strings.Join(lines, "\n")
}

// RenderLogPanel wraps the scrolled log view.
func RenderLogPanel(view string, count, width, height int, focused bool) string {
	title := StylePanelTitle.Render(fmt.Sprintf("LOG [%d]", count))
	return panelStyle(focused).Width(width - 2).Height(height - 2).MaxHeight(height).Render(title + "\n" + view)
}
