// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayASCII], [DisplayPointResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatQuietFrame], [FormatPoint].
//
//   - Write* functions write data to files on the filesystem.
//     They handle file creation, directory setup, and error handling.
//     Examples: [WriteFrameToFile].

package cli

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/agbru/mandelcalc/internal/palette"
	"github.com/agbru/mandelcalc/internal/render"
	"github.com/agbru/mandelcalc/internal/ui"
)

// OutputConfig holds configuration for frame output.
type OutputConfig struct {
	// OutputFile is the PNG path (empty for no file output).
	OutputFile string
	// Palette colours the PNG.
	Palette palette.Palette
	// ASCII prints a text preview.
	ASCII bool
	// Quiet mode suppresses the summary.
	Quiet bool
	// Verbose adds the iteration histogram.
	Verbose bool
}

// Rasterize colours every pixel of frame with p.
func Rasterize(frame *render.Frame, p palette.Palette) *image.RGBA {
	return frame.Image(p)
}

// WriteFrameToFile encodes frame as a PNG at path, creating parent
// directories as needed.
//
// Parameters:
//   - frame: The rendered frame.
//   - p: The palette used to colour it.
//   - path: The destination file.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteFrameToFile(frame *render.Frame, p palette.Palette, path string) (err error) {
	if path == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(file)
	if err := png.Encode(w, Rasterize(frame, p)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// DisplayASCII prints one character per pixel using palette.Density.
// Rows are written as rendered; callers size the frame for the terminal.
func DisplayASCII(out io.Writer, frame *render.Frame) {
	w := frame.Viewport.Width
	line := make([]rune, w)
	for y := 0; y < frame.Viewport.Height; y++ {
		for x := 0; x < w; x++ {
			line[x] = palette.Density(frame.At(x, y), frame.MaxIterations)
		}
		fmt.Fprintln(out, string(line))
	}
}

// FormatQuietFrame formats a frame for quiet mode: pixels, bounded and
// escaped counts on one line, suitable for scripting.
func FormatQuietFrame(frame *render.Frame) string {
	s := frame.Stats()
	return fmt.Sprintf("%d %d %d", s.Pixels, s.Bounded, s.Escaped)
}

// DisplayFrameWithConfig presents a frame according to the output
// configuration: summary or quiet line, optional ASCII preview and optional
// PNG file.
//
// Returns:
//   - error: An error if file output fails.
func DisplayFrameWithConfig(out io.Writer, frame *render.Frame, config OutputConfig) error {
	if config.ASCII {
		DisplayASCII(out, frame)
	}

	if config.Quiet {
		fmt.Fprintln(out, FormatQuietFrame(frame))
	} else {
		CLIFramePresenter{}.PresentFrame(frame, config.Verbose, out)
	}

	if config.OutputFile != "" {
		p := config.Palette
		if p == nil {
			p = palette.Grayscale{}
		}
		if err := WriteFrameToFile(frame, p, config.OutputFile); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Image saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}

	return nil
}
