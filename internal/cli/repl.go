package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/mandelcalc/internal/complexnum"
	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/render"
	"github.com/agbru/mandelcalc/internal/ui"
	"github.com/agbru/mandelcalc/internal/viewport"
)

const (
	// PreviewColumns and PreviewRows size the ASCII preview of the shell.
	PreviewColumns = 72
	PreviewRows    = 24
	// DefaultOrbitLength is the number of orbit states printed by "orbit".
	DefaultOrbitLength = 10
)

// REPLConfig holds configuration for the explorer shell.
type REPLConfig struct {
	// Viewport is the starting view.
	Viewport viewport.Viewport
	// MaxIterations and EscapeRadius parameterise every evaluation.
	MaxIterations int
	EscapeRadius  float64
	// Workers bounds the preview render.
	Workers int
	// Timeout is the maximum duration of each preview render.
	Timeout time.Duration
}

// REPL is a line-oriented explorer: it evaluates points and navigates a
// viewport with text commands.
type REPL struct {
	config REPLConfig
	view   viewport.Viewport
	in     io.Reader
	out    io.Writer
}

// NewREPL creates a new REPL instance starting at config.Viewport.
func NewREPL(config REPLConfig) *REPL {
	return &REPL{
		config: config,
		view:   config.Viewport,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// View returns the current viewport.
func (r *REPL) View() viewport.Viewport {
	return r.view
}

// Start reads commands until "exit", EOF or ctx is done.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for ctx.Err() == nil {
		fmt.Fprint(r.out, ui.ColorGreen()+"mandel> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}

		// A final line without a newline still runs before EOF ends the session.
		if input = strings.TrimSpace(input); input != "" && !r.processCommand(ctx, input) {
			return
		}
		if err != nil {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

// printBanner displays the REPL welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s        %sMandelbrot Explorer - Interactive Mode%s            %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

// printHelp displays available commands.
func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, line := range [][2]string{
		{"eval <re> <im>", "Evaluate a single point"},
		{"orbit <re> <im> [n]", "Print the first n orbit states"},
		{"center <re> <im>", "Move the view centre"},
		{"pan <dx> <dy>", "Pan by pixels (dy is down)"},
		{"zoom <factor>", "Zoom about the centre (>1 zooms in)"},
		{"rotate <radians>", "Rotate the view"},
		{"iter <n>", "Set the iteration cap"},
		{"region <name>", "Jump to a landmark (" + strings.Join(viewport.LandmarkNames(), ", ") + ")"},
		{"ascii", "Render a text preview of the view"},
		{"reset", "Return to the starting view"},
		{"status", "Display the current view"},
		{"help", "Display this help"},
		{"exit / quit", "Exit interactive mode"},
	} {
		fmt.Fprintf(r.out, "  %s%s%s%s - %s\n", ui.ColorYellow(), line[0], ui.ColorReset(), padRight("", 20-len(line[0])), line[1])
	}
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "eval", "e":
		r.cmdEval(args)
	case "orbit", "o":
		r.cmdOrbit(args)
	case "center", "c":
		r.cmdCenter(args)
	case "pan", "p":
		r.cmdPan(args)
	case "zoom", "z":
		r.cmdZoom(args)
	case "rotate", "rot":
		r.cmdRotate(args)
	case "iter", "i":
		r.cmdIter(args)
	case "region", "r":
		r.cmdRegion(args)
	case "ascii", "a":
		r.cmdASCII(ctx)
	case "reset":
		r.view = r.config.Viewport
		r.cmdStatus()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}

	return true
}

// parseFloats parses exactly n leading arguments as floats.
func (r *REPL) parseFloats(usage string, args []string, n int) ([]float64, bool) {
	if len(args) < n {
		fmt.Fprintf(r.out, "%sUsage: %s%s\n", ui.ColorRed(), usage, ui.ColorReset())
		return nil, false
	}
	values := make([]float64, n)
	for i := range values {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[i], ui.ColorReset())
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

// cmdEval handles the "eval" command.
func (r *REPL) cmdEval(args []string) {
	v, ok := r.parseFloats("eval <re> <im>", args, 2)
	if !ok {
		return
	}
	c := complexnum.New(v[0], v[1])
	start := time.Now()
	result, err := escape.Evaluate(c, r.config.MaxIterations, r.config.EscapeRadius)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	DisplayPointResult(c, result, r.config.MaxIterations, time.Since(start), r.out)
}

// cmdOrbit handles the "orbit" command.
func (r *REPL) cmdOrbit(args []string) {
	v, ok := r.parseFloats("orbit <re> <im> [n]", args, 2)
	if !ok {
		return
	}
	n := DefaultOrbitLength
	if len(args) > 2 {
		parsed, err := strconv.Atoi(args[2])
		if err != nil || parsed <= 0 {
			fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[2], ui.ColorReset())
			return
		}
		n = parsed
	}
	c := complexnum.New(v[0], v[1])
	fmt.Fprintf(r.out, "Orbit of %s%s%s:\n", ui.ColorMagenta(), FormatPoint(c), ui.ColorReset())
	for k, z := range escape.Orbit(c, min(n, r.config.MaxIterations), r.config.EscapeRadius) {
		fmt.Fprintf(r.out, "  z%-4d = %s%s%s  |z| = %.6g\n", k, ui.ColorCyan(), FormatPoint(z), ui.ColorReset(), z.Modulus())
	}
}

// cmdCenter handles the "center" command.
func (r *REPL) cmdCenter(args []string) {
	v, ok := r.parseFloats("center <re> <im>", args, 2)
	if !ok {
		return
	}
	r.view.Center = complexnum.New(v[0], v[1])
	r.cmdStatus()
}

// cmdPan handles the "pan" command.
func (r *REPL) cmdPan(args []string) {
	v, ok := r.parseFloats("pan <dx> <dy>", args, 2)
	if !ok {
		return
	}
	r.view = r.view.Pan(v[0], v[1])
	r.cmdStatus()
}

// cmdZoom handles the "zoom" command.
func (r *REPL) cmdZoom(args []string) {
	v, ok := r.parseFloats("zoom <factor>", args, 1)
	if !ok {
		return
	}
	if !(v[0] > 0) {
		fmt.Fprintf(r.out, "%sZoom factor must be positive%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	r.view = r.view.Zoom(v[0])
	r.cmdStatus()
}

// cmdRotate handles the "rotate" command.
func (r *REPL) cmdRotate(args []string) {
	v, ok := r.parseFloats("rotate <radians>", args, 1)
	if !ok {
		return
	}
	r.view = r.view.Rotate(v[0])
	r.cmdStatus()
}

// cmdIter handles the "iter" command.
func (r *REPL) cmdIter(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: iter <n>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	r.config.MaxIterations = n
	fmt.Fprintf(r.out, "Iteration cap changed to: %s%d%s\n", ui.ColorGreen(), n, ui.ColorReset())
}

// cmdRegion handles the "region" command.
func (r *REPL) cmdRegion(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: region <name>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	v, err := viewport.Landmark(args[0], r.view.Width, r.view.Height)
	if err != nil {
		fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	r.view = v
	r.cmdStatus()
}

// previewViewport fits the current view into the preview grid.
func (r *REPL) previewViewport() viewport.Viewport {
	v := r.view
	scale := max(v.PlaneWidth()/PreviewColumns, v.PlaneHeight()/PreviewRows)
	v.Scale = scale
	return v.Resize(PreviewColumns, PreviewRows)
}

// cmdASCII renders the current view as text.
func (r *REPL) cmdASCII(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	frame, err := render.Render(ctx, r.previewViewport(), render.Options{
		MaxIterations: r.config.MaxIterations,
		EscapeRadius:  r.config.EscapeRadius,
		Workers:       r.config.Workers,
	}, render.NullProgressReporter{}, io.Discard)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	DisplayASCII(r.out, frame)
	fmt.Fprintf(r.out, "%s(%s)%s\n", ui.ColorYellow(), FormatQuietFrame(frame), ui.ColorReset())
}

// cmdStatus displays the current view.
func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent view:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Centre:         %s%s%s\n", ui.ColorCyan(), FormatPoint(r.view.Center), ui.ColorReset())
	fmt.Fprintf(r.out, "  Scale:          %s%.6g%s per pixel\n", ui.ColorCyan(), r.view.Scale, ui.ColorReset())
	fmt.Fprintf(r.out, "  Magnification:  %s%.6g%s\n", ui.ColorCyan(), r.view.Magnification(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Rotation:       %s%.4g%s rad\n", ui.ColorCyan(), r.view.Rotation, ui.ColorReset())
	fmt.Fprintf(r.out, "  Iteration cap:  %s%d%s\n", ui.ColorCyan(), r.config.MaxIterations, ui.ColorReset())
	fmt.Fprintln(r.out)
}
