package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mandelcalc/internal/palette"
	"github.com/agbru/mandelcalc/internal/viewport"
)

func TestCanvasModel_PixelSize(t *testing.T) {
	c := NewCanvasModel(palette.Grayscale{}, true)
	c.SetSize(40, 10)
	if w, h := c.PixelSize(); w != 40 || h != 20 {
		t.Errorf("colour canvas pixels = %dx%d, want 40x20", w, h)
	}

	c = NewCanvasModel(palette.Grayscale{}, false)
	c.SetSize(40, 10)
	if w, h := c.PixelSize(); w != 40 || h != 10 {
		t.Errorf("glyph canvas pixels = %dx%d, want 40x10", w, h)
	}
}

func TestCanvasModel_DensityLines(t *testing.T) {
	c := NewCanvasModel(palette.Grayscale{}, false)
	c.SetSize(4, 2)
	c.SetFrame(testFrame(t, time.Millisecond))

	if len(c.lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(c.lines))
	}
	for _, line := range c.lines {
		if !strings.HasPrefix(line, "@@") {
			t.Errorf("bounded pixels should be '@', got %q", line)
		}
	}
}

func TestCanvasModel_HalfBlockLines(t *testing.T) {
	c := NewCanvasModel(palette.Grayscale{}, true)
	c.SetSize(4, 1)
	c.SetFrame(testFrame(t, time.Millisecond))

	// Two pixel rows fold into one line of four cells.
	if len(c.lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(c.lines))
	}
	if got := lipgloss.Width(c.lines[0]); got != 4 {
		t.Errorf("line width = %d, want 4", got)
	}
	if strings.Count(c.lines[0], halfBlock) != 4 {
		t.Errorf("expected four half blocks, got %q", c.lines[0])
	}
}

func TestCanvasModel_View(t *testing.T) {
	c := NewCanvasModel(palette.Grayscale{}, false)
	c.SetSize(10, 3)
	if !strings.Contains(c.View(), "rendering") {
		t.Error("empty canvas should show a placeholder")
	}
	if got := lipgloss.Height(c.View()); got != 5 {
		t.Errorf("panel height = %d, want 5 (3 rows and borders)", got)
	}
}

func TestHexColor(t *testing.T) {
	if got := hexColor(palette.Inside); got != "#000000" {
		t.Errorf("hexColor(Inside) = %q", got)
	}
}

func TestHeaderModel_View(t *testing.T) {
	vp, err := viewport.Default(40, 20)
	if err != nil {
		t.Fatal(err)
	}
	h := NewHeaderModel("dev")
	h.SetWidth(120)
	h.SetView(vp, 500)
	h.SetProgress(0.5)

	view := h.View()
	for _, want := range []string{"Mandelbrot Explorer", "c = -0.75+0.0i", "iter 500", "rendering  50%"} {
		if !strings.Contains(view, want) {
			t.Errorf("header should contain %q, got %q", want, view)
		}
	}
	if strings.Contains(view, "dev") {
		t.Error("dev version should be hidden")
	}

	h.SetDone(1500 * time.Millisecond)
	if !strings.Contains(h.View(), "done in") {
		t.Error("finished header should show the render time")
	}

	h.SetError(errors.New("bad view"))
	if !strings.Contains(h.View(), "error: bad view") {
		t.Error("header should show the error")
	}
}
