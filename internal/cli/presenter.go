package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/agbru/mandelcalc/internal/complexnum"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/format"
	"github.com/agbru/mandelcalc/internal/metrics"
	"github.com/agbru/mandelcalc/internal/render"
	"github.com/agbru/mandelcalc/internal/ui"
)

// HistogramBuckets is the number of rows in the verbose iteration histogram.
const HistogramBuckets = 10

// CLIProgressReporter implements render.ProgressReporter with a spinner and
// progress bar.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements render.ProgressReporter.
var _ render.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for an ongoing render.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan render.ProgressUpdate, out io.Writer) {
	DisplayProgress(wg, progressChan, out)
}

// CLIFramePresenter implements render.FramePresenter for CLI output.
type CLIFramePresenter struct{}

// Verify interface compliance.
var _ render.FramePresenter = CLIFramePresenter{}

// PresentFrame prints the frame summary and, when verbose, the iteration
// histogram.
func (CLIFramePresenter) PresentFrame(frame *render.Frame, verbose bool, out io.Writer) {
	stats := frame.Stats()
	fmt.Fprintf(out, "\n--- Frame Summary ---\n")
	fmt.Fprintf(out, "Render time:      %s%s%s\n", ui.ColorYellow(), format.FormatRenderTime(frame.Elapsed), ui.ColorReset())
	fmt.Fprintf(out, "Per pixel:        %s%s%s\n", ui.ColorYellow(), format.FormatPixelCost(frame.Elapsed, stats.Pixels), ui.ColorReset())
	fmt.Fprintf(out, "Pixels:           %s%s%s\n", ui.ColorCyan(), format.FormatCount(stats.Pixels), ui.ColorReset())
	fmt.Fprintf(out, "Bounded:          %s%s%s (%.1f%%)\n", ui.ColorBlue(), format.FormatCount(stats.Bounded), ui.ColorReset(), 100*stats.BoundedRatio())
	fmt.Fprintf(out, "Escaped:          %s%s%s\n", ui.ColorCyan(), format.FormatCount(stats.Escaped), ui.ColorReset())
	if stats.Escaped > 0 {
		fmt.Fprintf(out, "Escape iteration: min %s%d%s, mean %s%.1f%s, max %s%d%s\n",
			ui.ColorCyan(), stats.MinIteration, ui.ColorReset(),
			ui.ColorCyan(), stats.MeanIteration, ui.ColorReset(),
			ui.ColorCyan(), stats.MaxIteration, ui.ColorReset())
	}
	if verbose {
		presentHistogram(frame, out)
	}
}

// presentHistogram prints escaped pixels per iteration band as a bar table.
// Uses manual padding to correctly handle ANSI color codes.
func presentHistogram(frame *render.Frame, out io.Writer) {
	buckets := min(HistogramBuckets, frame.MaxIterations)
	hist := frame.Histogram(buckets)
	peak := 0
	for _, n := range hist {
		peak = max(peak, n)
	}

	fmt.Fprintf(out, "\n%sIterations%s%s   %sPixels%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", 13-len("Iterations")),
		ui.ColorUnderline(), ui.ColorReset())
	for i, n := range hist {
		lo := i*frame.MaxIterations/buckets + 1
		hi := (i + 1) * frame.MaxIterations / buckets
		label := fmt.Sprintf("%d-%d", lo, hi)
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("█", n*ProgressBarWidth/peak)
		}
		count := format.FormatCount(n)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s %s%s%s\n",
			ui.ColorBlue(), label, ui.ColorReset(), padRight("", 13-len(label)),
			ui.ColorCyan(), count, ui.ColorReset(), padRight("", 11-len(count)),
			ui.ColorMagenta(), bar, ui.ColorReset())
	}
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// DisplayPointResult prints the fate of a single parameter c.
func DisplayPointResult(c complexnum.Complex, r escape.Result, maxIterations int, duration time.Duration, out io.Writer) {
	point := FormatPoint(c)
	if r.IsBounded() {
		fmt.Fprintf(out, "c = %s%s%s is %sbounded%s after %s iterations (%s).\n",
			ui.ColorMagenta(), point, ui.ColorReset(),
			ui.ColorBlue(), ui.ColorReset(), format.FormatCount(maxIterations),
			format.FormatRenderTime(duration))
		return
	}
	fmt.Fprintf(out, "c = %s%s%s %sescaped%s at iteration %s%d%s (%s).\n",
		ui.ColorMagenta(), point, ui.ColorReset(),
		ui.ColorGreen(), ui.ColorReset(), ui.ColorCyan(), r.Iteration(), ui.ColorReset(),
		format.FormatRenderTime(duration))
}

// FormatPoint renders c as "re+imi".
func FormatPoint(c complexnum.Complex) string {
	im := complexnum.FormatFloat(c.Imaginary())
	if !strings.HasPrefix(im, "-") {
		im = "+" + im
	}
	return complexnum.FormatFloat(c.Real()) + im + "i"
}

// FormatQuietPoint formats a point result for scripting: the escape
// iteration, or 0 when bounded.
func FormatQuietPoint(r escape.Result) string {
	return fmt.Sprintf("%d", r.Iteration())
}

// HandleError handles render errors and returns an appropriate exit code.
func HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleRenderError(err, duration, out, CLIColorProvider{})
}

// CLIColorProvider implements apperrors.ColorProvider with the active theme.
type CLIColorProvider struct{}

// Verify interface compliance.
var _ apperrors.ColorProvider = CLIColorProvider{}

// Red returns the error color.
func (CLIColorProvider) Red() string { return ui.ColorRed() }

// Yellow returns the warning color.
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }

// Reset clears formatting.
func (CLIColorProvider) Reset() string { return ui.ColorReset() }

// DisplayMemoryStats shows memory statistics after a render.
func DisplayMemoryStats(usage metrics.MemoryUsage, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Peak heap:       %s\n", format.FormatBytes(usage.PeakHeap))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(usage.Allocated))
	fmt.Fprintf(out, "  GC cycles:       %d\n", usage.GCCycles)
	if usage.GCPauseNs > 0 {
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(usage.GCPauseNs)/1e6)
	} else {
		fmt.Fprintf(out, "  GC pause total:  0ms\n")
	}
}
