package tui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mandelcalc/internal/palette"
	"github.com/agbru/mandelcalc/internal/render"
)

// halfBlock shows the upper pixel in the foreground colour and the lower one
// in the background colour, giving two square-ish pixels per cell.
const halfBlock = "▀"

// CanvasModel draws the last rendered frame.
type CanvasModel struct {
	palette palette.Palette
	color   bool
	lines   []string
	width   int
	height  int
}

// NewCanvasModel creates a canvas. With color unset, pixels are drawn as
// density glyphs, one per cell.
func NewCanvasModel(p palette.Palette, color bool) CanvasModel {
	return CanvasModel{palette: p, color: color}
}

// SetSize sets the inner size in cells.
func (c *CanvasModel) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// PixelSize returns the frame size that fills the canvas.
func (c CanvasModel) PixelSize() (int, int) {
	if c.color {
		return c.width, c.height * 2
	}
	return c.width, c.height
}

// SetFrame converts frame into terminal lines.
func (c *CanvasModel) SetFrame(frame *render.Frame) {
	if c.color {
		c.lines = halfBlockLines(frame, c.palette)
	} else {
		c.lines = densityLines(frame)
	}
}

// View renders the canvas panel.
func (c CanvasModel) View() string {
	content := strings.Join(c.lines, "\n")
	if len(c.lines) == 0 {
		content = logTimeStyle.Render("rendering…")
	}
	return panelStyle.
		Width(c.width).
		Height(c.height).
		MaxHeight(c.height + 2).
		Render(content)
}

func densityLines(frame *render.Frame) []string {
	w, h := frame.Viewport.Width, frame.Viewport.Height
	lines := make([]string, h)
	row := make([]rune, w)
	for y := range h {
		for x := range w {
			row[x] = palette.Density(frame.At(x, y), frame.MaxIterations)
		}
		lines[y] = string(row)
	}
	return lines
}

func halfBlockLines(frame *render.Frame, p palette.Palette) []string {
	w, h := frame.Viewport.Width, frame.Viewport.Height
	cells := map[[2]color.RGBA]string{}
	lines := make([]string, 0, (h+1)/2)
	var b strings.Builder
	for y := 0; y < h; y += 2 {
		b.Reset()
		for x := range w {
			top := p.Color(frame.At(x, y), frame.MaxIterations)
			bottom := top
			if y+1 < h {
				bottom = p.Color(frame.At(x, y+1), frame.MaxIterations)
			}
			pair := [2]color.RGBA{top, bottom}
			cell, ok := cells[pair]
			if !ok {
				cell = lipgloss.NewStyle().
					Foreground(lipgloss.Color(hexColor(top))).
					Background(lipgloss.Color(hexColor(bottom))).
					Render(halfBlock)
				cells[pair] = cell
			}
			b.WriteString(cell)
		}
		lines = append(lines, b.String())
	}
	return lines
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
