package radar

import (
	"math"
	"strings"
	"sync"

	"ble-gatt-radar.klederson.com/internal/config"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

var (
	colorBackground = mustHex("#020617")
	colorGrid       = mustHex("#22C55E")
	colorSelected   = mustHex("#F8FAFC")
	colorLabel      = mustHex("#D1D5DB")
)

const (
	gridAlpha     = 0.4
	interiorAlpha = 0.12
	haloAlpha     = 0.35
	labelAlpha    = 0.9
	labelOffsetPx = 12.0
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

var (
	styleMu    sync.Mutex
	styleCache = map[string]lipgloss.Style{}
)

// shade returns a style painting c with the given alpha over the radar
// background.
func shade(c colorful.Color, alpha float64, bold bool) lipgloss.Style {
	alpha = math.Max(0, math.Min(1, alpha))
	hex := colorBackground.BlendRgb(c, alpha).Clamped().Hex()
	key := hex
	if bold {
		key += "!"
	}

	styleMu.Lock()
	defer styleMu.Unlock()
	if s, ok := styleCache[key]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(bold)
	styleCache[key] = s
	return s
}

type cell struct {
	ch    string // "" marks the right half of a wide rune
	style lipgloss.Style
}

// Render rasterises a frame onto a cols x rows block of terminal cells.
// The frame is expected to be laid out on CanvasSize(cols, rows).
func Render(cols, rows int, f Frame) string {
	if cols < 10 || rows < 5 {
		return ""
	}

	grid := make([][]cell, rows)
	for row := range grid {
		grid[row] = make([]cell, cols)
		for col := range grid[row] {
			grid[row][col] = backgroundCell(f, col, row)
		}
	}

	put := func(col, row int, ch string, style lipgloss.Style) {
		if row < 0 || row >= rows || col < 0 || col >= cols {
			return
		}
		grid[row][col] = cell{ch: ch, style: style}
	}

	// Halos and labels first so that no label can hide a dot.
	haloCols := int(math.Ceil(config.HaloRadius / config.CellWidthPx))
	for _, b := range f.Blips {
		col, row := CanvasToCell(b.X, b.Y)
		halo := shade(colorGrid, b.Opacity*haloAlpha, false)
		put(col-haloCols, row, "(", halo)
		put(col+haloCols, row, ")", halo)
		drawLabel(grid, b, shade(colorLabel, labelAlpha, false))
	}

	for _, b := range f.Blips {
		if b.Selected {
			continue
		}
		col, row := CanvasToCell(b.X, b.Y)
		put(col, row, "*", shade(colorGrid, b.Opacity, true))
	}
	for _, b := range f.Blips {
		if !b.Selected {
			continue
		}
		col, row := CanvasToCell(b.X, b.Y)
		put(col, row, "@", shade(colorSelected, b.Opacity, true))
	}

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := grid[row][col]
			if c.ch == "" {
				continue
			}
			sb.WriteString(c.style.Render(c.ch))
		}
		if row < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// drawLabel centres the blip label on the row above the dot.
func drawLabel(grid [][]cell, b Blip, style lipgloss.Style) {
	if b.Label == "" {
		return
	}
	dotCol, dotRow := CanvasToCell(b.X, b.Y)
	_, row := CanvasToCell(b.X, b.Y-labelOffsetPx)
	if row >= dotRow {
		row = dotRow - 1
	}
	if row < 0 || row >= len(grid) {
		return
	}

	width := runewidth.StringWidth(b.Label)
	col := dotCol - width/2
	cols := len(grid[row])
	for _, r := range b.Label {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= 0 && col+w <= cols {
			grid[row][col] = cell{ch: string(r), style: style}
			if w == 2 {
				grid[row][col+1] = cell{}
			}
		}
		col += w
	}
}

func backgroundCell(f Frame, col, row int) cell {
	blank := cell{ch: " ", style: lipgloss.NewStyle()}
	if f.MaxRadius <= 0 {
		return blank
	}

	px, py := CellCenter(col, row)
	dx, dy := px-f.CX, py-f.CY
	dist := math.Hypot(dx, dy)
	if dist > f.MaxRadius+config.CellHeightPx/2 {
		return blank
	}

	angle := NormalizeAngle(math.Atan2(dy, dx))
	boost := 0.0
	if dist <= f.MaxRadius && InWedge(f.Sweep, angle) {
		boost = WedgeAlpha(dist, f.MaxRadius) * 1.5
	}

	centerCol, centerRow := CanvasToCell(f.CX, f.CY)
	switch {
	case col == centerCol && row == centerRow:
		return cell{ch: "+", style: shade(colorGrid, 1, true)}
	case col == centerCol && dist <= f.MaxRadius:
		return cell{ch: "|", style: shade(colorGrid, gridAlpha+boost, false)}
	case row == centerRow && dist <= f.MaxRadius:
		return cell{ch: "-", style: shade(colorGrid, gridAlpha+boost, false)}
	}

	if dist > 0 {
		// Radial half-extent of the cell, so rings stay one cell thick.
		tol := math.Max(config.CellWidthPx/2*math.Abs(dx)/dist, config.CellHeightPx/2*math.Abs(dy)/dist)
		for i := 1; i <= config.RingCount; i++ {
			ringR := f.MaxRadius * float64(i) / config.RingCount
			if math.Abs(dist-ringR) <= tol {
				return cell{ch: string(RingChar(angle)), style: shade(colorGrid, gridAlpha+boost, false)}
			}
		}
	}

	if dist > f.MaxRadius {
		return blank
	}
	if boost > 0 {
		return cell{ch: ":", style: shade(colorGrid, interiorAlpha+boost, false)}
	}
	return cell{ch: ".", style: shade(colorGrid, interiorAlpha, false)}
}

// RenderLegend produces the radar legend line.
func RenderLegend(width int) string {
	legend := shade(colorGrid, 1, true).Render("*") + " device  " +
		shade(colorSelected, 1, true).Render("@") + " selected  " +
		shade(colorGrid, config.OpacityNew, false).Render("<5s") + " " +
		shade(colorGrid, config.OpacityMid, false).Render("<15s") + " " +
		shade(colorGrid, config.OpacityOld, false).Render("older")

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}
