package render

import (
	"io"
	"sync"
	"time"
)

// ProgressUpdate reports how many rows of a frame are done.
type ProgressUpdate struct {
	// Value is the completed fraction, from 0.0 to 1.0.
	Value float64
	// RowsDone and Rows are the completed and total row counts.
	RowsDone int
	Rows     int
}

// ProgressReporter defines the interface for displaying render progress.
// This interface decouples the render layer from the presentation layer.
//
// Implementations handle the visual representation of progress (spinners,
// progress bars, TUI messages) while Render focuses on evaluating pixels.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done. Render runs it in its own goroutine.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, out io.Writer) {
	f(wg, progressChan, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
// Useful for quiet mode, the HTTP server and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// Recorder observes completed renders, typically to export metrics.
type Recorder interface {
	ObserveRender(stats Stats, elapsed time.Duration)
}

// FramePresenter defines the interface for presenting a finished frame.
type FramePresenter interface {
	PresentFrame(frame *Frame, verbose bool, out io.Writer)
}
