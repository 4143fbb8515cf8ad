package palette

import (
	"errors"
	"image/color"
	"testing"

	"github.com/agbru/mandelcalc/internal/escape"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
)

func TestBoundedIsBlack(t *testing.T) {
	t.Parallel()
	for _, name := range Names() {
		p, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		if got := p.Color(escape.Bounded, 100); got != Inside {
			t.Errorf("%s: bounded colour = %v, want %v", name, got, Inside)
		}
	}
}

func TestEscapedIsOpaqueAndNotBlack(t *testing.T) {
	t.Parallel()
	for _, name := range Names() {
		p, _ := ByName(name)
		for _, k := range []int{2, 10, 50, 99} {
			c := p.Color(escape.Escaped(k), 100)
			if c.A != 0xff {
				t.Errorf("%s: Escaped(%d) alpha = %d", name, k, c.A)
			}
		}
	}
}

func TestGrayscale(t *testing.T) {
	t.Parallel()
	g := Grayscale{}
	first := g.Color(escape.Escaped(1), 100)
	last := g.Color(escape.Escaped(100), 100)
	if first != (color.RGBA{R: 32, G: 32, B: 32, A: 0xff}) {
		t.Errorf("Escaped(1) = %v", first)
	}
	if last != (color.RGBA{R: 255, G: 255, B: 255, A: 0xff}) {
		t.Errorf("Escaped(max) = %v", last)
	}
	mid := g.Color(escape.Escaped(10), 100)
	if !(mid.R > first.R && mid.R < last.R) {
		t.Errorf("brightness should grow with the iteration, got %v", mid)
	}
}

func TestGradientEndpoints(t *testing.T) {
	t.Parallel()
	g, err := NewGradient("#ff0000", "#0000ff")
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Color(escape.Escaped(1), 100); got != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("first stop = %v", got)
	}
	if got := g.Color(escape.Escaped(100), 100); got != (color.RGBA{B: 0xff, A: 0xff}) {
		t.Errorf("last stop = %v", got)
	}
}

func TestNewGradientErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		stops []string
	}{
		{"single stop", []string{"#ffffff"}},
		{"bad hex", []string{"#ffffff", "teal"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var ve apperrors.ValidationError
			if _, err := NewGradient(tt.stops...); !errors.As(err, &ve) {
				t.Errorf("NewGradient(%v) = %v, want ValidationError", tt.stops, err)
			}
		})
	}
}

func TestCycleRepeats(t *testing.T) {
	t.Parallel()
	c := Cycle{Period: 8, Saturation: 1, Value: 1}
	if a, b := c.Color(escape.Escaped(3), 1000), c.Color(escape.Escaped(11), 1000); a != b {
		t.Errorf("colours one period apart differ: %v vs %v", a, b)
	}
	if got := c.Color(escape.Escaped(8), 1000); got != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("hue 0 = %v, want red", got)
	}
	if got := (Cycle{Saturation: 1, Value: 1}).Color(escape.Escaped(5), 10); got.A != 0xff {
		t.Errorf("zero period should still paint, got %v", got)
	}
}

func TestByName(t *testing.T) {
	t.Parallel()
	p, err := ByName("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*Gradient); !ok {
		t.Errorf("default palette is %T", p)
	}
	if _, err := ByName("sepia"); err == nil {
		t.Error("expected error for unknown palette")
	}
	if names := Names(); len(names) == 0 || names[0] != "fire" {
		t.Errorf("Names() = %v", names)
	}
}

func TestDensity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		r    escape.Result
		want rune
	}{
		{escape.Bounded, '@'},
		{escape.Escaped(1), ' '},
		{escape.Escaped(100), '%'},
	}
	for _, tt := range tests {
		if got := Density(tt.r, 100); got != tt.want {
			t.Errorf("Density(%v) = %q, want %q", tt.r, got, tt.want)
		}
	}
	if got := Density(escape.Escaped(1), 1); got != '%' {
		t.Errorf("Density with a cap of one = %q", got)
	}
}

func BenchmarkGradient(b *testing.B) {
	p, _ := ByName("ultra")
	b.ReportAllocs()
	for b.Loop() {
		_ = p.Color(escape.Escaped(37), 1000)
	}
}
