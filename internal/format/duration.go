package format

import (
	"fmt"
	"strconv"
	"time"
)

// FormatRenderTime formats the wall time of a frame or a single evaluation
// with three significant digits in the largest unit below it, so a 4.56ms
// frame and a 12.3µs point evaluation stay comparable at a glance. Durations
// of a minute or more fall back to whole seconds ("2m5s").
func FormatRenderTime(d time.Duration) string {
	switch {
	case d < 0:
		return "-" + FormatRenderTime(-d)
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return threeDigits(float64(d)/float64(time.Microsecond)) + "µs"
	case d < time.Second:
		return threeDigits(float64(d)/float64(time.Millisecond)) + "ms"
	case d < time.Minute:
		return threeDigits(d.Seconds()) + "s"
	default:
		return d.Round(time.Second).String()
	}
}

// FormatPixelCost formats the mean time spent per pixel, e.g. "42ns/px".
// It returns "-" when there are no pixels.
func FormatPixelCost(d time.Duration, pixels int) string {
	if pixels <= 0 {
		return "-"
	}
	return FormatRenderTime(d/time.Duration(pixels)) + "/px"
}

// FormatPixelRate renders a throughput in pixels per second with a metric
// prefix.
func FormatPixelRate(pps float64) string {
	switch {
	case pps >= 1e9:
		return fmt.Sprintf("%.1f Gpx/s", pps/1e9)
	case pps >= 1e6:
		return fmt.Sprintf("%.1f Mpx/s", pps/1e6)
	case pps >= 1e3:
		return fmt.Sprintf("%.1f kpx/s", pps/1e3)
	default:
		return fmt.Sprintf("%.0f px/s", pps)
	}
}

// threeDigits keeps three significant digits for v in [1, 1000).
func threeDigits(v float64) string {
	prec := 0
	switch {
	case v < 10:
		prec = 2
	case v < 100:
		prec = 1
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
