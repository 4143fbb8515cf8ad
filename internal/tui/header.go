package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mandelcalc/internal/complexnum"
	"github.com/agbru/mandelcalc/internal/format"
	"github.com/agbru/mandelcalc/internal/viewport"
)

// HeaderModel renders the top bar: title, current view and render status.
type HeaderModel struct {
	version       string
	view          viewport.Viewport
	maxIterations int
	rendering     bool
	progress      float64
	elapsed       time.Duration
	err           error
	width         int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{version: version}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// SetView records the view being rendered and marks the render as started.
func (h *HeaderModel) SetView(v viewport.Viewport, maxIterations int) {
	h.view = v
	h.maxIterations = maxIterations
	h.rendering = true
	h.progress = 0
	h.err = nil
}

// SetProgress updates the completed fraction of the current render.
func (h *HeaderModel) SetProgress(p float64) {
	h.progress = p
}

// SetDone marks the render as finished.
func (h *HeaderModel) SetDone(elapsed time.Duration) {
	h.rendering = false
	h.elapsed = elapsed
}

// SetError marks the render as failed.
func (h *HeaderModel) SetError(err error) {
	h.rendering = false
	h.err = err
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "Mandelbrot Explorer"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")

	im := complexnum.FormatFloat(h.view.Center.Imaginary())
	if !strings.HasPrefix(im, "-") {
		im = "+" + im
	}
	view := elapsedStyle.Render(fmt.Sprintf("c = %s%si  ×%.3g  iter %s",
		complexnum.FormatFloat(h.view.Center.Real()), im,
		h.view.Magnification(),
		format.FormatCount(h.maxIterations)))

	var status string
	switch {
	case h.err != nil:
		status = statusErrorStyle.Render("error: " + h.err.Error())
	case h.rendering:
		status = statusRunningStyle.Render(fmt.Sprintf("rendering %3.0f%%", 100*h.progress))
	default:
		status = statusDoneStyle.Render("done in " + format.FormatRenderTime(h.elapsed))
	}

	row := titleStyle.Render(titleText) + pipe + view + pipe + status
	gap := max(h.width-2-lipgloss.Width(row), 0)
	return headerStyle.Width(h.width).MaxWidth(h.width).Render(row + spaces(gap))
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
