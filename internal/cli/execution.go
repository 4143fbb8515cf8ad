package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/mandelcalc/internal/config"
	"github.com/agbru/mandelcalc/internal/format"
	"github.com/agbru/mandelcalc/internal/ui"
	"github.com/agbru/mandelcalc/internal/viewport"
	"golang.org/x/sys/cpu"
)

// PrintExecutionConfig displays the view, the iteration settings and the
// environment the render will run on.
//
// Parameters:
//   - cfg: The application configuration.
//   - vp: The resolved viewport.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, vp viewport.Viewport, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Rendering %s%.12g%+.12gi%s at %s%dx%d%s (magnification %s%.3g%s).\n",
		ui.ColorMagenta(), vp.Center.Real(), vp.Center.Imaginary(), ui.ColorReset(),
		ui.ColorCyan(), vp.Width, vp.Height, ui.ColorReset(),
		ui.ColorCyan(), vp.Magnification(), ui.ColorReset())
	fmt.Fprintf(out, "Iterations: cap=%s%s%s, escape radius=%s%g%s, timeout %s%s%s.\n",
		ui.ColorCyan(), format.FormatCount(cfg.MaxIterations), ui.ColorReset(),
		ui.ColorCyan(), cfg.EscapeRadius, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, CPU features: %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		ui.ColorCyan(), CPUFeatures(), ui.ColorReset())
	fmt.Fprintf(out, "Scheduling: %s%d%s workers, %s%d%s rows per tile.\n",
		ui.ColorCyan(), cfg.Workers, ui.ColorReset(), ui.ColorCyan(), cfg.TileRows, ui.ColorReset())
}

// PrintExecutionMode displays where the frame will go.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionMode(cfg config.AppConfig, out io.Writer) {
	var modeDesc string
	switch {
	case cfg.ASCII:
		modeDesc = "Text preview on the terminal"
	case cfg.OutputFile != "":
		modeDesc = fmt.Sprintf("PNG image with the %s%s%s palette", ui.ColorGreen(), cfg.Palette, ui.ColorReset())
	default:
		modeDesc = "Statistics only (use -o or --ascii for an image)"
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// CPUFeatures lists the floating-point extensions the escape loop can
// benefit from, or "none".
func CPUFeatures() string {
	var features []string
	switch runtime.GOARCH {
	case "amd64", "386":
		if cpu.X86.HasFMA {
			features = append(features, "FMA")
		}
		if cpu.X86.HasAVX2 {
			features = append(features, "AVX2")
		}
		if cpu.X86.HasAVX512F {
			features = append(features, "AVX-512")
		}
	case "arm64":
		// Every arm64 core has fused multiply-add.
		features = append(features, "FMA")
		if cpu.ARM64.HasASIMD {
			features = append(features, "ASIMD")
		}
	}
	if len(features) == 0 {
		return "none"
	}
	return strings.Join(features, ", ")
}
