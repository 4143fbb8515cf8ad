package render

import (
	"time"

	"github.com/agbru/mandelcalc/internal/format"
)

// ProgressAggregator turns the progress updates of one frame into a
// smoothed ETA.
type ProgressAggregator struct {
	eta *format.ETAEstimator
}

// NewProgressAggregator creates an aggregator for one frame.
func NewProgressAggregator() *ProgressAggregator {
	return &ProgressAggregator{eta: format.NewETAEstimator()}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	ProgressUpdate
	// ETA is the estimated time remaining based on smoothed progress rate.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	return AggregatedProgress{ProgressUpdate: update, ETA: a.eta.Observe(update.Value)}
}

// Progress returns the last recorded fraction, for redraws between updates.
func (a *ProgressAggregator) Progress() float64 {
	return a.eta.Fraction()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.eta.ETA()
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
