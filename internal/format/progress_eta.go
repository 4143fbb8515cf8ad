package format

import (
	"fmt"
	"strings"
	"time"
)

// etaSmoothing weights the newest rate sample in the exponential moving
// average of the completion rate.
const etaSmoothing = 0.3

// maxETA caps estimates made from very slow early progress.
const maxETA = 24 * time.Hour

// ETAEstimator estimates the time left for a job that reports its
// completion as a fraction in [0, 1]. It is not safe for concurrent use.
type ETAEstimator struct {
	now      func() time.Time
	start    time.Time
	last     time.Time
	fraction float64
	rate     float64 // fraction per second, smoothed
}

// NewETAEstimator creates an estimator whose clock starts now.
func NewETAEstimator() *ETAEstimator {
	return newETAEstimator(time.Now)
}

func newETAEstimator(now func() time.Time) *ETAEstimator {
	t := now()
	return &ETAEstimator{now: now, start: t, last: t}
}

// Observe records the completion fraction, clamped to [0, 1], and returns
// the new estimate. A fraction that does not advance leaves the rate alone.
func (e *ETAEstimator) Observe(fraction float64) time.Duration {
	fraction = min(max(fraction, 0), 1)
	t := e.now()
	if dt := t.Sub(e.last).Seconds(); dt > 0 && fraction > e.fraction {
		sample := (fraction - e.fraction) / dt
		if e.rate == 0 {
			e.rate = sample
		} else {
			e.rate = etaSmoothing*sample + (1-etaSmoothing)*e.rate
		}
		e.last = t
		e.fraction = fraction
	}
	return e.ETA()
}

// Fraction returns the last recorded completion fraction.
func (e *ETAEstimator) Fraction() float64 { return e.fraction }

// ETA returns the estimated time remaining, or 0 while no rate is known or
// once the job is complete.
func (e *ETAEstimator) ETA() time.Duration {
	if e.rate <= 0 || e.fraction >= 1 {
		return 0
	}
	seconds := (1 - e.fraction) / e.rate
	if seconds > maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(seconds * float64(time.Second))
}

// Elapsed returns the time since the estimator was created.
func (e *ETAEstimator) Elapsed() time.Duration {
	return e.now().Sub(e.start)
}

// FormatETA renders an ETA as "45s", "2m30s" or "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		if s := int(eta.Seconds()) % 60; s > 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	default:
		h := int(eta.Hours())
		if m := int(eta.Minutes()) % 60; m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
}

// ProgressBar renders a bar of length cells for progress in [0, 1].
func ProgressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar]  42.0% ETA: 12s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), min(max(progress, 0), 1)*100, FormatETA(eta))
}
