package render

import (
	"image"
	"image/color"
	"time"

	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/viewport"
)

// Frame is the result of rendering a viewport: one escape result per pixel,
// row-major from the top-left corner.
type Frame struct {
	Viewport      viewport.Viewport
	MaxIterations int
	EscapeRadius  float64
	Results       []escape.Result
	Elapsed       time.Duration
}

// At returns the result for pixel (x, y).
func (f *Frame) At(x, y int) escape.Result {
	return f.Results[y*f.Viewport.Width+x]
}

// Stats summarises the escape results of a frame.
type Stats struct {
	Pixels        int
	Bounded       int
	Escaped       int
	MinIteration  int
	MaxIteration  int
	MeanIteration float64
}

// BoundedRatio is the fraction of pixels that stayed bounded.
func (s Stats) BoundedRatio() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(s.Bounded) / float64(s.Pixels)
}

// Stats counts bounded and escaped pixels. Iteration figures cover escaped
// pixels only and are zero when none escaped.
func (f *Frame) Stats() Stats {
	s := Stats{Pixels: len(f.Results)}
	var sum int64
	for _, r := range f.Results {
		if r.IsBounded() {
			s.Bounded++
			continue
		}
		k := r.Iteration()
		if s.Escaped == 0 || k < s.MinIteration {
			s.MinIteration = k
		}
		s.MaxIteration = max(s.MaxIteration, k)
		s.Escaped++
		sum += int64(k)
	}
	if s.Escaped > 0 {
		s.MeanIteration = float64(sum) / float64(s.Escaped)
	}
	return s
}

// Histogram counts escaped pixels in buckets of equal iteration width
// spanning 1..MaxIterations. Bounded pixels are not counted.
func (f *Frame) Histogram(buckets int) []int {
	if buckets <= 0 {
		return nil
	}
	h := make([]int, buckets)
	for _, r := range f.Results {
		if r.IsBounded() {
			continue
		}
		i := (r.Iteration() - 1) * buckets / max(f.MaxIterations, 1)
		h[min(i, buckets-1)]++
	}
	return h
}

// Colorer maps an escape result to a pixel colour. palette.Palette
// satisfies it.
type Colorer interface {
	Color(r escape.Result, maxIterations int) color.RGBA
}

// Image colours every pixel of the frame with c.
func (f *Frame) Image(c Colorer) *image.RGBA {
	w, h := f.Viewport.Width, f.Viewport.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x, r := range f.Results[y*w : (y+1)*w] {
			img.SetRGBA(x, y, c.Color(r, f.MaxIterations))
		}
	}
	return img
}
