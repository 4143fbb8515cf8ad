package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/mandelcalc/internal/cli"
	"github.com/agbru/mandelcalc/internal/config"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/metrics"
	"github.com/agbru/mandelcalc/internal/palette"
	"github.com/agbru/mandelcalc/internal/render"
	"github.com/agbru/mandelcalc/internal/ui"
)

// runRender renders the configured view and presents the frame.
func (a *Application) runRender(ctx context.Context, out io.Writer) int {
	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	vp, err := a.Config.Viewport()
	if err != nil {
		return cli.HandleError(err, 0, out)
	}
	p, err := palette.ByName(a.Config.Palette)
	if err != nil {
		return cli.HandleError(err, 0, out)
	}

	// Skip verbose output in quiet mode
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, vp, out)
		cli.PrintExecutionMode(a.Config, out)
	}

	// Choose progress reporter based on quiet mode
	var progressReporter render.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = render.NullProgressReporter{}
	}

	opts := render.Options{
		MaxIterations: a.Config.MaxIterations,
		EscapeRadius:  a.Config.EscapeRadius,
		Workers:       a.Config.Workers,
		TileRows:      a.Config.TileRows,
	}

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	start := time.Now()
	frame, err := render.Render(ctx, vp, opts, progressReporter, progressOut)
	if err != nil {
		return cli.HandleError(err, time.Since(start), out)
	}
	usage := collector.Snapshot().Since(before)

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Palette:    p,
		ASCII:      a.Config.ASCII,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}
	if err := cli.DisplayFrameWithConfig(out, frame, outputCfg); err != nil {
		fmt.Fprintf(out, "%sError writing image: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	if a.Config.Verbose && !a.Config.Quiet {
		cli.DisplayMemoryStats(usage, out)
	}
	return apperrors.ExitSuccess
}

// runPoint evaluates the single point given with --point.
func (a *Application) runPoint(out io.Writer) int {
	c, err := config.ParsePoint(a.Config.Point)
	if err != nil {
		return cli.HandleError(err, 0, out)
	}

	start := time.Now()
	result, err := escape.Evaluate(c, a.Config.MaxIterations, a.Config.EscapeRadius)
	duration := time.Since(start)
	if err != nil {
		return cli.HandleError(err, duration, out)
	}

	if a.Config.Quiet {
		fmt.Fprintln(out, cli.FormatQuietPoint(result))
	} else {
		cli.DisplayPointResult(c, result, a.Config.MaxIterations, duration, out)
	}
	return apperrors.ExitSuccess
}
