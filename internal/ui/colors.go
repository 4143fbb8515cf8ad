package ui

// The Color functions return the escape code of the active theme for each
// role, or "" when colors are disabled. They are safe for concurrent use.

// ColorReset clears all formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorBold starts bold text.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline starts underlined text.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorRed marks errors.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen marks success.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow marks warnings and durations.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue marks primary values.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorCyan marks informational values.
func ColorCyan() string { return GetCurrentTheme().Info }

// ColorMagenta marks secondary values.
func ColorMagenta() string { return GetCurrentTheme().Secondary }
