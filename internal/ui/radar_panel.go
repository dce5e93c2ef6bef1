package ui

// RenderRadarPanel wraps radar content with a border. The radar itself is
// rendered by the radar package so the panel knows nothing about geometry.
func RenderRadarPanel(width, height int, radarContent, legend string, focused bool) string {
	content := radarContent + "\n" + legend
	return panelStyle(focused).Width(width - 2).Height(height - 2).MaxHeight(height).Render(content)
}
