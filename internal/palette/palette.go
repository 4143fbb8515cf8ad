// Package palette turns escape results into colours.
//
// Every palette paints bounded points black and spreads escaped points over
// its colour range by escape iteration relative to the iteration cap.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/agbru/mandelcalc/internal/escape"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/lucasb-eyer/go-colorful"
)

// Inside is the colour of bounded points.
var Inside = color.RGBA{A: 0xff}

// Palette maps an escape result to a colour. Implementations are immutable
// and safe for concurrent use.
type Palette interface {
	Color(r escape.Result, maxIterations int) color.RGBA
}

// fraction maps an escape iteration onto [0, 1] on a logarithmic scale, which
// keeps detail visible near the boundary where iterations grow quickly.
func fraction(r escape.Result, maxIterations int) float64 {
	if maxIterations <= 1 {
		return 1
	}
	return math.Log(float64(r.Iteration())) / math.Log(float64(maxIterations))
}

// Grayscale paints escaped points from dark to white.
type Grayscale struct{}

// Color implements Palette.
func (Grayscale) Color(r escape.Result, maxIterations int) color.RGBA {
	if r.IsBounded() {
		return Inside
	}
	v := uint8(math.Round(32 + 223*fraction(r, maxIterations)))
	return color.RGBA{R: v, G: v, B: v, A: 0xff}
}

// Gradient blends between colour stops in the HCL space.
type Gradient struct {
	stops []colorful.Color
}

// NewGradient builds a gradient from two or more hex colours.
func NewGradient(hexStops ...string) (*Gradient, error) {
	if len(hexStops) < 2 {
		return nil, apperrors.ValidationError{Field: "palette", Message: "a gradient needs at least two stops"}
	}
	stops := make([]colorful.Color, len(hexStops))
	for i, h := range hexStops {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, apperrors.ValidationError{Field: "palette", Message: fmt.Sprintf("bad stop %q", h), Cause: err}
		}
		stops[i] = c
	}
	return &Gradient{stops: stops}, nil
}

// Color implements Palette.
func (g *Gradient) Color(r escape.Result, maxIterations int) color.RGBA {
	if r.IsBounded() {
		return Inside
	}
	return toRGBA(g.at(fraction(r, maxIterations)))
}

func (g *Gradient) at(t float64) colorful.Color {
	t = math.Min(math.Max(t, 0), 1)
	pos := t * float64(len(g.stops)-1)
	i := int(pos)
	if i >= len(g.stops)-1 {
		return g.stops[len(g.stops)-1]
	}
	return g.stops[i].BlendHcl(g.stops[i+1], pos-float64(i)).Clamped()
}

// Cycle walks the hue circle once every Period iterations, which makes
// adjacent escape bands easy to tell apart at deep zoom.
type Cycle struct {
	Period     int
	Saturation float64
	Value      float64
}

// Color implements Palette.
func (c Cycle) Color(r escape.Result, _ int) color.RGBA {
	if r.IsBounded() {
		return Inside
	}
	period := max(c.Period, 1)
	hue := 360 * float64(r.Iteration()%period) / float64(period)
	return toRGBA(colorful.Hsv(hue, c.Saturation, c.Value))
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Default is the palette used when none is named.
const Default = "ultra"

var builtin = map[string]func() Palette{
	"gray": func() Palette { return Grayscale{} },
	"ultra": func() Palette {
		g, _ := NewGradient("#000764", "#206bcb", "#edffff", "#ffaa00", "#000200")
		return g
	},
	"fire": func() Palette {
		g, _ := NewGradient("#1a0000", "#8b0000", "#ff4500", "#ffd700", "#ffffe0")
		return g
	},
	"ocean": func() Palette {
		g, _ := NewGradient("#001219", "#005f73", "#0a9396", "#94d2bd", "#e9d8a6")
		return g
	},
	"rainbow": func() Palette { return Cycle{Period: 64, Saturation: 0.85, Value: 1} },
}

// Names returns the built-in palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ByName returns the built-in palette called name. The empty name selects
// Default.
func ByName(name string) (Palette, error) {
	if name == "" {
		name = Default
	}
	build, ok := builtin[name]
	if !ok {
		return nil, apperrors.ValidationError{
			Field:   "palette",
			Message: fmt.Sprintf("unknown palette %q (available: %v)", name, Names()),
		}
	}
	return build(), nil
}

// densityRamp runs from sparse to dense glyphs.
const densityRamp = " .:-=+*#%@"

// Density returns a glyph for text rendering: bounded points are the densest
// glyph and escaped points get denser the longer they survived.
func Density(r escape.Result, maxIterations int) rune {
	ramp := []rune(densityRamp)
	if r.IsBounded() {
		return ramp[len(ramp)-1]
	}
	i := int(fraction(r, maxIterations) * float64(len(ramp)-2))
	return ramp[min(max(i, 0), len(ramp)-2)]
}
