// Package viewport maps pixel coordinates onto the complex plane.
//
// A Viewport is a value: every navigation method returns a new Viewport and
// leaves the receiver untouched, so a renderer can keep using the viewport it
// started with while the user moves on.
package viewport

import (
	"fmt"
	"math"

	"github.com/agbru/mandelcalc/internal/complexnum"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
)

// MaxDimension bounds the width and height of a viewport in pixels.
const MaxDimension = 1 << 14

// Viewport is a rectangle of pixels centred on a point of the complex plane.
// Scale is the plane distance covered by one pixel and Rotation turns the
// view counter-clockwise, in radians.
type Viewport struct {
	Center   complexnum.Complex
	Scale    float64
	Rotation float64
	Width    int
	Height   int
}

// New returns a validated, unrotated viewport.
func New(center complexnum.Complex, scale float64, width, height int) (Viewport, error) {
	v := Viewport{Center: center, Scale: scale, Width: width, Height: height}
	if err := v.Validate(); err != nil {
		return Viewport{}, err
	}
	return v, nil
}

// Default returns the full-set view fitted to width×height.
func Default(width, height int) (Viewport, error) {
	return FromRegion(Landmarks[DefaultLandmark], width, height)
}

// Validate reports the first invalid field as an apperrors.ValidationError.
func (v Viewport) Validate() error {
	switch {
	case v.Width <= 0 || v.Width > MaxDimension:
		return apperrors.ValidationError{Field: "width", Message: fmt.Sprintf("must be in [1, %d], got %d", MaxDimension, v.Width)}
	case v.Height <= 0 || v.Height > MaxDimension:
		return apperrors.ValidationError{Field: "height", Message: fmt.Sprintf("must be in [1, %d], got %d", MaxDimension, v.Height)}
	case !(v.Scale > 0) || math.IsInf(v.Scale, 0):
		return apperrors.ValidationError{Field: "scale", Message: fmt.Sprintf("must be a positive finite number, got %g", v.Scale)}
	case !v.Center.IsFinite():
		return apperrors.ValidationError{Field: "center", Message: fmt.Sprintf("must be finite, got %v", v.Center)}
	case math.IsNaN(v.Rotation) || math.IsInf(v.Rotation, 0):
		return apperrors.ValidationError{Field: "rotation", Message: fmt.Sprintf("must be finite, got %g", v.Rotation)}
	}
	return nil
}

// Transform is a precomputed pixel-to-plane affine map. Building one costs a
// sine and a cosine; applying it costs two multiplications per component.
type Transform struct {
	origin complexnum.Complex
	stepX  complexnum.Complex
	stepY  complexnum.Complex
}

// Transform precomputes the mapping for v.
func (v Viewport) Transform() Transform {
	rot := complexnum.Rotation(v.Rotation).Scale(v.Scale)
	// Pixel (0, 0) sits half a pixel inside the top-left corner.
	corner := complexnum.New(0.5-float64(v.Width)/2, float64(v.Height)/2-0.5)
	return Transform{
		origin: v.Center.Add(corner.Multiply(rot)),
		stepX:  rot,
		stepY:  complexnum.New(0, -1).Multiply(rot),
	}
}

// At returns the plane point at the centre of pixel (x, y).
func (t Transform) At(x, y int) complexnum.Complex {
	return t.origin.Add(t.stepX.Scale(float64(x))).Add(t.stepY.Scale(float64(y)))
}

// PixelToPlane returns the plane point at the centre of pixel (x, y), where
// y grows downwards:
//
//	Center + Rotation(θ)·Scale·(x − W/2 + ½, H/2 − y − ½)
func (v Viewport) PixelToPlane(x, y int) complexnum.Complex {
	offset := complexnum.New(float64(x)-float64(v.Width)/2+0.5, float64(v.Height)/2-float64(y)-0.5)
	return v.Center.Add(offset.Scale(v.Scale).Multiply(complexnum.Rotation(v.Rotation)))
}

// Pan moves the view by dx pixels right and dy pixels down.
func (v Viewport) Pan(dx, dy float64) Viewport {
	shift := complexnum.New(dx, -dy).Scale(v.Scale).Multiply(complexnum.Rotation(v.Rotation))
	v.Center = v.Center.Add(shift)
	return v
}

// Zoom magnifies the view about its centre. factor > 1 zooms in.
func (v Viewport) Zoom(factor float64) Viewport {
	if !(factor > 0) {
		return v
	}
	v.Scale /= factor
	return v
}

// ZoomAt magnifies the view by factor while keeping the plane point under
// pixel (x, y) fixed.
func (v Viewport) ZoomAt(x, y int, factor float64) Viewport {
	if !(factor > 0) {
		return v
	}
	anchor := v.PixelToPlane(x, y)
	v.Center = anchor.Add(v.Center.Subtract(anchor).Scale(1 / factor))
	v.Scale /= factor
	return v
}

// Rotate turns the view by delta radians; the result is kept in [-π, π].
func (v Viewport) Rotate(delta float64) Viewport {
	v.Rotation = math.Remainder(v.Rotation+delta, 2*math.Pi)
	return v
}

// Resize changes the pixel dimensions, keeping centre and scale.
func (v Viewport) Resize(width, height int) Viewport {
	v.Width, v.Height = width, height
	return v
}

// PlaneWidth returns the plane distance spanned horizontally.
func (v Viewport) PlaneWidth() float64 { return v.Scale * float64(v.Width) }

// PlaneHeight returns the plane distance spanned vertically.
func (v Viewport) PlaneHeight() float64 { return v.Scale * float64(v.Height) }

// Magnification is the zoom relative to the default full-set view height.
func (v Viewport) Magnification() float64 {
	full := Landmarks[DefaultLandmark]
	return (full.MaxIm - full.MinIm) / v.PlaneHeight()
}

// String summarises the viewport for logs and banners.
func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d at (%s, %s) scale %.3g rot %.3g",
		v.Width, v.Height,
		complexnum.FormatFloat(v.Center.Real()), complexnum.FormatFloat(v.Center.Imaginary()),
		v.Scale, v.Rotation)
}
