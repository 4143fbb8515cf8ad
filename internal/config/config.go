// Package config parses the command line and environment into an AppConfig.
//
// Values are resolved with the priority CLI flags > MANDELCALC_* environment
// variables > defaults, then validated as a whole.
package config

import (
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/mandelcalc/internal/complexnum"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/palette"
	"github.com/agbru/mandelcalc/internal/viewport"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "MANDELCALC_"

const (
	// DefaultWidth and DefaultHeight size the rendered image.
	DefaultWidth  = 1200
	DefaultHeight = 900
	// DefaultMaxIterations caps the escape loop.
	DefaultMaxIterations = 500
	// DefaultTimeout bounds a whole run.
	DefaultTimeout = 5 * time.Minute
)

// AppConfig aggregates every setting of a mandelcalc run.
type AppConfig struct {
	// View
	Re, Im   float64
	Scale    float64
	Zoom     float64
	Region   string
	Rotation float64
	Width    int
	Height   int

	// Iteration
	MaxIterations int
	EscapeRadius  float64

	// Execution
	Workers  int
	TileRows int
	Timeout  time.Duration

	// Output
	Palette    string
	OutputFile string
	ASCII      bool
	Point      string
	Quiet      bool
	Verbose    bool
	NoColor    bool
	LogLevel   string

	// Modes
	TUI         bool
	Interactive bool
	ServeAddr   string
	Completion  string
}

// Default returns the configuration used when no flag or variable is set.
func Default() AppConfig {
	full := viewport.Landmarks[viewport.DefaultLandmark].Center()
	return AppConfig{
		Re:            full.Real(),
		Im:            full.Imaginary(),
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		MaxIterations: DefaultMaxIterations,
		EscapeRadius:  escape.DefaultEscapeRadius,
		Timeout:       DefaultTimeout,
		Palette:       palette.Default,
		LogLevel:      "info",
	}
}

// ParseConfig parses args (without the program name) into an AppConfig.
// Usage and parse errors are written to errWriter. A --help request returns
// flag.ErrHelp unchanged.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	config := Default()
	fs.Float64Var(&config.Re, "re", config.Re, "Real part of the view centre.")
	fs.Float64Var(&config.Im, "im", config.Im, "Imaginary part of the view centre.")
	fs.Float64Var(&config.Scale, "scale", 0, "Plane units per pixel (overrides --zoom).")
	fs.Float64Var(&config.Zoom, "zoom", 0, "Plane height of the view (0 = whole set).")
	fs.StringVar(&config.Region, "region", "", fmt.Sprintf("Named landmark to render (%s).", strings.Join(viewport.LandmarkNames(), ", ")))
	fs.Float64Var(&config.Rotation, "rotate", 0, "Counter-clockwise view rotation in radians.")
	fs.IntVar(&config.Width, "width", config.Width, "Image width in pixels.")
	fs.IntVar(&config.Height, "height", config.Height, "Image height in pixels.")
	fs.IntVar(&config.MaxIterations, "max-iter", config.MaxIterations, "Iteration cap per point.")
	fs.Float64Var(&config.EscapeRadius, "radius", config.EscapeRadius, "Escape radius.")
	fs.IntVar(&config.Workers, "workers", 0, "Parallel render workers (0 = auto).")
	fs.IntVar(&config.TileRows, "tile-rows", 0, "Rows per render tile (0 = auto).")
	fs.StringVar(&config.Palette, "palette", config.Palette, fmt.Sprintf("Colour palette (%s).", strings.Join(palette.Names(), ", ")))
	fs.StringVar(&config.OutputFile, "output", "", "Write the image to this PNG file.")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for --output.")
	fs.BoolVar(&config.ASCII, "ascii", false, "Print a text preview instead of writing an image.")
	fs.StringVar(&config.Point, "point", "", "Evaluate a single point given as re,im.")
	fs.DurationVar(&config.Timeout, "timeout", config.Timeout, "Maximum run time.")
	fs.BoolVar(&config.TUI, "tui", false, "Launch the interactive explorer.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start the line-oriented explorer shell.")
	fs.BoolVar(&config.Interactive, "i", false, "Shorthand for --interactive.")
	fs.StringVar(&config.Completion, "completion", "", "Print a shell completion script (bash, zsh, fish, powershell).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.ServeAddr, "serve", "", "Serve the HTTP API on this address.")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level (debug, info, warn, error).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Minimal output.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Show render statistics.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for --verbose.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %v", fs.Args())
	}

	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errWriter, "Configuration error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the configuration for semantic errors.
func (c AppConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Width > viewport.MaxDimension:
		return apperrors.NewConfigError("--width must be in [1, %d], got %d", viewport.MaxDimension, c.Width)
	case c.Height <= 0 || c.Height > viewport.MaxDimension:
		return apperrors.NewConfigError("--height must be in [1, %d], got %d", viewport.MaxDimension, c.Height)
	case c.MaxIterations <= 0 || c.MaxIterations > math.MaxInt32:
		return apperrors.NewConfigError("--max-iter must be in [1, %d], got %d", math.MaxInt32, c.MaxIterations)
	case !(c.EscapeRadius > 0) || math.IsInf(c.EscapeRadius, 0):
		return apperrors.NewConfigError("--radius must be a positive finite number, got %g", c.EscapeRadius)
	case c.Scale < 0 || math.IsNaN(c.Scale):
		return apperrors.NewConfigError("--scale must not be negative, got %g", c.Scale)
	case c.Zoom < 0 || math.IsNaN(c.Zoom):
		return apperrors.NewConfigError("--zoom must not be negative, got %g", c.Zoom)
	case c.Workers < 0:
		return apperrors.NewConfigError("--workers must not be negative, got %d", c.Workers)
	case c.TileRows < 0:
		return apperrors.NewConfigError("--tile-rows must not be negative, got %d", c.TileRows)
	case c.Timeout <= 0:
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	}
	if c.Region != "" {
		if _, ok := viewport.Landmarks[c.Region]; !ok {
			return apperrors.NewConfigError("unknown --region %q (available: %s)", c.Region, strings.Join(viewport.LandmarkNames(), ", "))
		}
	}
	if _, err := palette.ByName(c.Palette); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if c.Point != "" {
		if _, err := ParsePoint(c.Point); err != nil {
			return apperrors.NewConfigError("%v", err)
		}
	}
	switch c.Completion {
	case "", "bash", "zsh", "fish", "powershell", "ps":
	default:
		return apperrors.NewConfigError("unsupported --completion shell %q (bash, zsh, fish, powershell)", c.Completion)
	}
	modes := 0
	for _, on := range []bool{c.TUI, c.Interactive, c.ServeAddr != "", c.Point != ""} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return apperrors.NewConfigError("--tui, --interactive, --serve and --point are mutually exclusive")
	}
	return nil
}

// Viewport resolves the view settings. --region wins over the centre flags;
// otherwise --scale wins over --zoom, and with neither the whole set fits.
func (c AppConfig) Viewport() (viewport.Viewport, error) {
	var (
		v   viewport.Viewport
		err error
	)
	switch {
	case c.Region != "":
		v, err = viewport.Landmark(c.Region, c.Width, c.Height)
	case c.Scale > 0:
		v, err = viewport.New(complexnum.New(c.Re, c.Im), c.Scale, c.Width, c.Height)
	default:
		var full viewport.Viewport
		if full, err = viewport.Default(c.Width, c.Height); err != nil {
			return viewport.Viewport{}, err
		}
		scale := full.Scale
		if c.Zoom > 0 {
			scale = c.Zoom / float64(c.Height)
		}
		v, err = viewport.New(complexnum.New(c.Re, c.Im), scale, c.Width, c.Height)
	}
	if err != nil {
		return viewport.Viewport{}, err
	}
	return v.Rotate(c.Rotation), nil
}

// ParsePoint parses "re,im" into a complex number.
func ParsePoint(s string) (complexnum.Complex, error) {
	reText, imText, ok := strings.Cut(s, ",")
	if !ok {
		return complexnum.Complex{}, apperrors.ValidationError{Field: "point", Message: fmt.Sprintf("expected re,im, got %q", s)}
	}
	re, err := strconv.ParseFloat(strings.TrimSpace(reText), 64)
	if err != nil {
		return complexnum.Complex{}, apperrors.ValidationError{Field: "point", Message: "bad real part", Cause: err}
	}
	im, err := strconv.ParseFloat(strings.TrimSpace(imText), 64)
	if err != nil {
		return complexnum.Complex{}, apperrors.ValidationError{Field: "point", Message: "bad imaginary part", Cause: err}
	}
	return complexnum.New(re, im), nil
}
