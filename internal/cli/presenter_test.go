package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/mandelcalc/internal/complexnum"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/metrics"
	"github.com/agbru/mandelcalc/internal/ui"
)

func TestPresentFrame(t *testing.T) {
	original := ui.GetCurrentTheme()
	defer ui.SetCurrentTheme(original)
	ui.SetCurrentTheme(ui.NoColorTheme)

	var buf bytes.Buffer
	CLIFramePresenter{}.PresentFrame(testFrame(t), false, &buf)
	output := buf.String()
	for _, want := range []string{"Render time:      3.00ms", "Per pixel:        375µs/px", "Pixels:           8", "Bounded:          4 (50.0%)", "min 1, mean 40.2, max 100"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Iterations") {
		t.Error("histogram should only appear in verbose mode")
	}

	buf.Reset()
	CLIFramePresenter{}.PresentFrame(testFrame(t), true, &buf)
	if !strings.Contains(buf.String(), "1-10") || !strings.Contains(buf.String(), "91-100") {
		t.Errorf("verbose output should list iteration bands, got:\n%s", buf.String())
	}
}

func TestDisplayPointResult(t *testing.T) {
	original := ui.GetCurrentTheme()
	defer ui.SetCurrentTheme(original)
	ui.SetCurrentTheme(ui.NoColorTheme)

	var buf bytes.Buffer
	DisplayPointResult(complexnum.New(0.26, 0), escape.Escaped(30), 1000, time.Microsecond, &buf)
	if !strings.Contains(buf.String(), "c = 0.26+0.0i escaped at iteration 30") {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	DisplayPointResult(complexnum.New(-1, -0.5), escape.Bounded, 1000, time.Microsecond, &buf)
	if !strings.Contains(buf.String(), "c = -1.0-0.5i is bounded after 1,000 iterations") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFormatQuietPoint(t *testing.T) {
	t.Parallel()
	if FormatQuietPoint(escape.Bounded) != "0" || FormatQuietPoint(escape.Escaped(7)) != "7" {
		t.Error("quiet point output should be the escape iteration")
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"success", nil, apperrors.ExitSuccess},
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled},
		{"invalid", apperrors.ValidationError{Field: "scale", Message: "bad"}, apperrors.ExitErrorConfig},
		{"generic", errors.New("boom"), apperrors.ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if got := HandleError(tt.err, time.Second, &buf); got != tt.code {
				t.Errorf("HandleError() = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestDisplayMemoryStats(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayMemoryStats(metrics.MemoryUsage{Allocated: 2048, PeakHeap: 1 << 20, GCCycles: 3, GCPauseNs: 1_500_000}, &buf)
	for _, want := range []string{"1.0 MiB", "2.0 KiB", "GC cycles:       3", "1.50ms"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output should contain %q, got:\n%s", want, buf.String())
		}
	}
}
