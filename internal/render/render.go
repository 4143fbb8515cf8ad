package render

import (
	"context"
	"image"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/viewport"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking render
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// DefaultTileRows is the band height used when Options.TileRows is zero.
const DefaultTileRows = 16

const tracerName = "github.com/agbru/mandelcalc/internal/render"

// Options configures a render.
type Options struct {
	MaxIterations int
	EscapeRadius  float64
	// Workers bounds the concurrent bands; zero uses runtime.NumCPU.
	Workers int
	// TileRows is the band height; zero uses DefaultTileRows.
	TileRows int
	// Map is the iterated map; nil selects escape.Quadratic.
	Map escape.Map
	// Recorder, when set, observes every completed frame.
	Recorder Recorder
}

// Render evaluates every pixel of vp.
//
// Bands run on an errgroup limited to opts.Workers. The context is checked
// before every row, so cancelling it abandons the frame promptly; the
// context error is then returned and no frame is produced. Progress is sent
// to reporter, which writes to out.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - vp: The viewport to render.
//   - opts: Iteration parameters and execution settings.
//   - reporter: The progress reporter (use NullProgressReporter for quiet mode).
//   - out: The io.Writer handed to the reporter.
//
// Returns:
//   - *Frame: The rendered frame.
//   - error: A validation error for bad input, or the context error.
func Render(ctx context.Context, vp viewport.Viewport, opts Options, reporter ProgressReporter, out io.Writer) (*Frame, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	ev, err := escape.NewEvaluator(opts.Map, opts.MaxIterations, opts.EscapeRadius)
	if err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	tileRows := opts.TileRows
	if tileRows <= 0 {
		tileRows = DefaultTileRows
	}
	if reporter == nil {
		reporter = NullProgressReporter{}
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "render.Frame", trace.WithAttributes(
		attribute.Int("mandelcalc.width", vp.Width),
		attribute.Int("mandelcalc.height", vp.Height),
		attribute.Int("mandelcalc.max_iterations", opts.MaxIterations),
		attribute.Float64("mandelcalc.scale", vp.Scale),
		attribute.Int("mandelcalc.workers", workers),
	))
	defer span.End()

	frame := &Frame{
		Viewport:      vp,
		MaxIterations: opts.MaxIterations,
		EscapeRadius:  opts.EscapeRadius,
		Results:       make([]escape.Result, vp.Width*vp.Height),
	}
	bands := SplitRows(image.Rect(0, 0, vp.Width, vp.Height), tileRows)
	progressChan := make(chan ProgressUpdate, workers*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, out)

	start := time.Now()
	tr := vp.Transform()
	var rowsDone atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, band := range bands {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			for y := band.Min.Y; y < band.Max.Y; y++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				row := frame.Results[y*vp.Width : (y+1)*vp.Width]
				for x := range row {
					row[x] = ev.Evaluate(tr.At(x, y))
				}
			}
			done := int(rowsDone.Add(int64(band.Dy())))
			progressChan <- ProgressUpdate{
				Value:    float64(done) / float64(vp.Height),
				RowsDone: done,
				Rows:     vp.Height,
			}
			return nil
		})
	}

	err = g.Wait()
	if err == nil {
		// Bands skipped after a cancellation return no error of their own.
		err = ctx.Err()
	}
	close(progressChan)
	displayWg.Wait()
	frame.Elapsed = time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	stats := frame.Stats()
	span.SetAttributes(
		attribute.Int("mandelcalc.bounded", stats.Bounded),
		attribute.Float64("mandelcalc.mean_iteration", stats.MeanIteration),
	)
	if opts.Recorder != nil {
		opts.Recorder.ObserveRender(stats, frame.Elapsed)
	}
	return frame, nil
}
