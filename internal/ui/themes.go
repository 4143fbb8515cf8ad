package ui

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/palette"
)

// Theme defines a color scheme for UI output.
// Each field contains an ANSI escape code for the corresponding color category.
type Theme struct {
	// Name is the palette the theme was sampled from, or "none".
	Name string
	// Primary is the main accent color for important elements.
	Primary string
	// Secondary is used for less prominent elements.
	Secondary string
	// Success indicates positive outcomes or completed operations.
	Success string
	// Warning is used for caution messages or non-critical issues.
	Warning string
	// Error indicates failures or critical issues.
	Error string
	// Info is used for informational values.
	Info string
	// Bold is the escape code for bold text.
	Bold string
	// Underline is the escape code for underlined text.
	Underline string
	// Reset clears all formatting.
	Reset string

	tui TUITheme
}

// TUITheme defines lipgloss-compatible colors for the TUI explorer.
type TUITheme struct {
	Bg      lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

// Positions along a palette, in escape-fraction units, that the accent
// colors are sampled from.
const (
	primaryAt = 0.45
	infoAt    = 0.65
	successAt = 0.85
	// minLightness keeps sampled accents readable on a dark terminal.
	minLightness = 0.62
	// sampleIterations is the cap used when sampling a palette.
	sampleIterations = 1000
)

// Fixed roles that do not follow the palette.
var (
	warningColor   = colorful.Color{R: 1, G: 0.72, B: 0.28}
	errorColor     = colorful.Color{R: 1, G: 0.27, B: 0.27}
	secondaryColor = colorful.Color{R: 0.55, G: 0.55, B: 0.55}
	textColor      = colorful.Color{R: 0.88, G: 0.88, B: 0.88}
	dimColor       = colorful.Color{R: 0.4, G: 0.4, B: 0.4}
)

var (
	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or --no-color is given.
	NoColorTheme = Theme{
		Name: "none",
		tui: TUITheme{
			Bg:      lipgloss.NoColor{},
			Text:    lipgloss.NoColor{},
			Border:  lipgloss.NoColor{},
			Accent:  lipgloss.NoColor{},
			Success: lipgloss.NoColor{},
			Warning: lipgloss.NoColor{},
			Error:   lipgloss.NoColor{},
			Dim:     lipgloss.NoColor{},
			Info:    lipgloss.NoColor{},
		},
	}

	// currentTheme is the active theme used throughout the application.
	currentTheme = mustTheme(palette.Default)
	themeMutex   sync.RWMutex
)

// NewTheme samples the accents of the named palette so terminal output
// matches the images it describes.
func NewTheme(paletteName string) (Theme, error) {
	p, err := palette.ByName(paletteName)
	if err != nil {
		return Theme{}, err
	}
	primary := accent(p, primaryAt)
	info := accent(p, infoAt)
	success := accent(p, successAt)

	return Theme{
		Name:      paletteName,
		Primary:   ansi(primary),
		Secondary: ansi(secondaryColor),
		Success:   ansi(success),
		Warning:   ansi(warningColor),
		Error:     ansi(errorColor),
		Info:      ansi(info),
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
		tui: TUITheme{
			Bg:      lipgloss.Color("#000000"),
			Text:    lipgloss.Color(textColor.Hex()),
			Border:  lipgloss.Color(primary.Hex()),
			Accent:  lipgloss.Color(success.Hex()),
			Success: lipgloss.Color(info.Hex()),
			Warning: lipgloss.Color(warningColor.Hex()),
			Error:   lipgloss.Color(errorColor.Hex()),
			Dim:     lipgloss.Color(dimColor.Hex()),
			Info:    lipgloss.Color(info.Hex()),
		},
	}, nil
}

func mustTheme(paletteName string) Theme {
	t, err := NewTheme(paletteName)
	if err != nil {
		panic(err)
	}
	return t
}

// accent returns the color p gives at escape fraction t, lightened until it
// reads on a dark background.
func accent(p palette.Palette, t float64) colorful.Color {
	k := int(math.Round(math.Pow(sampleIterations, t)))
	c, _ := colorful.MakeColor(p.Color(escape.Escaped(max(k, 1)), sampleIterations))
	h, chroma, l := c.Hcl()
	if l >= minLightness {
		return c
	}
	// Trade chroma for lightness until the color fits in sRGB.
	for c = colorful.Hcl(h, chroma, minLightness); !c.IsValid() && chroma > 0.01; c = colorful.Hcl(h, chroma, minLightness) {
		chroma *= 0.9
	}
	return c.Clamped()
}

// ansi returns the 24-bit foreground escape for c.
func ansi(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", r>>8, g>>8, b>>8)
}

// TUI returns the lipgloss colors of t.
func (t Theme) TUI() TUITheme { return t.tui }

// GetCurrentTUITheme returns the TUI colors of the active theme.
func GetCurrentTUITheme() TUITheme {
	return GetCurrentTheme().tui
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
// This is primarily used for testing purposes to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// InitTheme activates the theme sampled from paletteName. It respects the
// NO_COLOR environment variable (https://no-color.org/): if noColor is true
// or NO_COLOR is set, colors are disabled. An unknown palette falls back to
// the default one.
func InitTheme(noColor bool, paletteName string) {
	t := NoColorTheme
	if _, exists := os.LookupEnv("NO_COLOR"); !noColor && !exists {
		var err error
		if t, err = NewTheme(paletteName); err != nil {
			t = mustTheme(palette.Default)
		}
	}
	SetCurrentTheme(t)
}
