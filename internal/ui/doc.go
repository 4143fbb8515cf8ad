// Package ui provides theme and color support for the application's user interface.
// Themes are sampled from the image palettes, so the CLI banner, the frame
// presenter and the TUI explorer use the accents of the palette being rendered.
package ui
