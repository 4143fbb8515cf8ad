package viewport

import (
	"fmt"
	"math"
	"slices"

	"github.com/agbru/mandelcalc/internal/complexnum"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
)

// Region is an axis-aligned rectangle of the complex plane.
type Region struct {
	MinRe, MaxRe float64
	MinIm, MaxIm float64
}

// Center returns the midpoint of r.
func (r Region) Center() complexnum.Complex {
	return complexnum.New((r.MinRe+r.MaxRe)/2, (r.MinIm+r.MaxIm)/2)
}

// Validate checks that r has positive finite extent.
func (r Region) Validate() error {
	for _, f := range []float64{r.MinRe, r.MaxRe, r.MinIm, r.MaxIm} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return apperrors.ValidationError{Field: "region", Message: "bounds must be finite"}
		}
	}
	if r.MaxRe <= r.MinRe || r.MaxIm <= r.MinIm {
		return apperrors.ValidationError{Field: "region", Message: fmt.Sprintf("empty region %+v", r)}
	}
	return nil
}

// FromRegion returns the unrotated viewport of width×height pixels that
// contains r, centred on it. The pixel aspect ratio stays square, so one axis
// of r may gain margin.
func FromRegion(r Region, width, height int) (Viewport, error) {
	if err := r.Validate(); err != nil {
		return Viewport{}, err
	}
	if width <= 0 || height <= 0 {
		return Viewport{}, apperrors.ValidationError{Field: "size", Message: fmt.Sprintf("must be positive, got %dx%d", width, height)}
	}
	scale := math.Max((r.MaxRe-r.MinRe)/float64(width), (r.MaxIm-r.MinIm)/float64(height))
	return New(r.Center(), scale, width, height)
}

// DefaultLandmark names the region shown when nothing else is requested.
const DefaultLandmark = "full"

// Landmarks are classic regions of the Mandelbrot set, keyed by the names
// accepted on the command line.
var Landmarks = map[string]Region{
	// The whole set.
	"full": {MinRe: -2.5, MaxRe: 1.0, MinIm: -1.25, MaxIm: 1.25},
	// Dense filaments and repeating seahorse curls.
	"seahorse-valley": {MinRe: -0.8, MaxRe: -0.7, MinIm: 0.05, MaxIm: 0.15},
	// Large bulb with trunk-like tendrils.
	"elephant-valley": {MinRe: -1.85, MaxRe: -1.75, MinIm: -0.10, MaxIm: -0.02},
	// Small copy of the set with tight spiral arms.
	"spiral-minibrot": {MinRe: -0.7435, MaxRe: -0.7420, MinIm: 0.1310, MaxIm: 0.1325},
	// Threefold symmetric spiral.
	"triple-spiral": {MinRe: -0.7480, MaxRe: -0.7450, MinIm: 0.0950, MaxIm: 0.0980},
	// Deep spiral filaments.
	"valley-of-the-dragon": {MinRe: -0.7400, MaxRe: -0.7350, MinIm: 0.1800, MaxIm: 0.1850},
	// Self-similar copy inside a spiral arm.
	"minibrot-in-mini-spiral": {MinRe: -1.7390, MaxRe: -1.7375, MinIm: -0.0235, MaxIm: -0.0220},
}

// LandmarkNames returns the landmark names in sorted order.
func LandmarkNames() []string {
	names := make([]string, 0, len(Landmarks))
	for name := range Landmarks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Landmark fits the named landmark to width×height.
func Landmark(name string, width, height int) (Viewport, error) {
	r, ok := Landmarks[name]
	if !ok {
		return Viewport{}, apperrors.ValidationError{
			Field:   "region",
			Message: fmt.Sprintf("unknown landmark %q (available: %v)", name, LandmarkNames()),
		}
	}
	return FromRegion(r, width, height)
}
