// Command mandelcalc renders and explores the Mandelbrot set.
package main

import (
	"context"
	"io"
	"os"

	"github.com/agbru/mandelcalc/internal/app"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run parses args, dispatches to the selected mode and returns the exit
// code. Usage and flag errors go to stderr; results go to stdout.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 1 && app.HasVersionFlag(args[1:]) {
		app.PrintVersion(stdout)
		return apperrors.ExitSuccess
	}

	application, err := app.New(args, stderr)
	switch {
	case app.IsHelpError(err):
		return apperrors.ExitSuccess
	case err != nil:
		return apperrors.ExitErrorGeneric
	}
	return application.Run(ctx, stdout)
}
