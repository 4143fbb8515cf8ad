// Package app wires the configuration to the run modes of mandelcalc.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/mandelcalc/internal/cli"
	"github.com/agbru/mandelcalc/internal/config"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/logging"
	"github.com/agbru/mandelcalc/internal/metrics"
	"github.com/agbru/mandelcalc/internal/palette"
	"github.com/agbru/mandelcalc/internal/server"
	"github.com/agbru/mandelcalc/internal/tui"
	"github.com/agbru/mandelcalc/internal/ui"
	"github.com/agbru/mandelcalc/internal/viewport"
)

// Application represents the mandelcalc application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// args includes the program name.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := "mandelcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	cfg = config.ApplyAdaptiveDefaults(cfg)
	return &Application{Config: cfg, ErrWriter: errWriter}, nil
}

// Run executes the application based on the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	zerolog.SetGlobalLevel(logging.ParseLevel(a.Config.LogLevel))
	ui.InitTheme(a.Config.NoColor, a.Config.Palette)

	switch {
	case a.Config.Point != "":
		return a.runPoint(out)
	case a.Config.TUI:
		return a.runTUI(ctx)
	case a.Config.Interactive:
		return a.runInteractive(ctx, out)
	case a.Config.ServeAddr != "":
		return a.runServe(ctx)
	}
	return a.runRender(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	sources := cli.CompletionSources{
		Palettes: palette.Names(),
		Regions:  viewport.LandmarkNames(),
	}
	if err := cli.GenerateCompletion(out, a.Config.Completion, sources); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive explorer. It runs until the user quits or
// a signal arrives; --timeout does not apply.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return tui.Run(ctx, a.Config, Version, a.ErrWriter)
}

// runInteractive starts the line-oriented explorer shell on stdin.
func (a *Application) runInteractive(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	vp, err := a.Config.Viewport()
	if err != nil {
		return cli.HandleError(err, 0, a.ErrWriter)
	}
	repl := cli.NewREPL(cli.REPLConfig{
		Viewport:      vp,
		MaxIterations: a.Config.MaxIterations,
		EscapeRadius:  a.Config.EscapeRadius,
		Workers:       a.Config.Workers,
		Timeout:       a.Config.Timeout,
	})
	repl.SetOutput(out)
	repl.Start(ctx)
	return apperrors.ExitSuccess
}

// runServe serves the HTTP API until a signal arrives.
func (a *Application) runServe(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger := logging.NewLogger(a.ErrWriter, "server")
	sc := server.DefaultConfig(a.Config.ServeAddr)
	sc.MaxIterations = a.Config.MaxIterations
	sc.EscapeRadius = a.Config.EscapeRadius
	sc.Palette = a.Config.Palette
	sc.Workers = a.Config.Workers

	srv := server.NewServer(sc,
		server.WithLogger(logger),
		server.WithMetrics(metrics.NewMetrics()),
	)
	if err := srv.Start(ctx); err != nil {
		logger.Error("server failed", err, logging.String("addr", a.Config.ServeAddr))
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
