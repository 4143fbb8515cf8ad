package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/mandelcalc/internal/format"
	"github.com/agbru/mandelcalc/internal/render"
	"github.com/agbru/mandelcalc/internal/ui"
	"github.com/briandowns/spinner"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts a terminal spinner so DisplayProgress can be tested
// without a real terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	// Using the same interval as ProgressRefreshRate to synchronize
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with a progress bar and ETA until
// progressChan is closed, then prints the final bar and calls wg.Done.
//
// Parameters:
//   - wg: The WaitGroup released when the display stops.
//   - progressChan: The channel of row updates from render.Render.
//   - out: The writer the spinner draws on.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan render.ProgressUpdate, out io.Writer) {
	defer wg.Done()

	aggregator := render.NewProgressAggregator()
	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(" " + format.FormatProgressBarWithETA(0, 0, ProgressBarWidth))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	var last render.AggregatedProgress
	seen := false
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				if seen {
					fmt.Fprintf(out, "%s%s%s rows %s\n", ui.ColorGreen(),
						format.FormatProgressBarWithETA(aggregator.Progress(), 0, ProgressBarWidth),
						ui.ColorReset(), rowsLabel(last.ProgressUpdate))
				}
				return
			}
			last = aggregator.Update(update)
			seen = true
		case <-ticker.C:
			s.UpdateSuffix(fmt.Sprintf(" %s rows %s",
				format.FormatProgressBarWithETA(aggregator.Progress(), aggregator.GetETA(), ProgressBarWidth),
				rowsLabel(last.ProgressUpdate)))
		}
	}
}

// rowsLabel renders "done/total" for a progress update.
func rowsLabel(u render.ProgressUpdate) string {
	return fmt.Sprintf("%s/%s", format.FormatCount(u.RowsDone), format.FormatCount(u.Rows))
}
