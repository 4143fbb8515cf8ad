package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agbru/mandelcalc/internal/render"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	return rec.Body.String()
}

func TestNewMetrics(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	if m.handler == nil || m.Registry() == nil {
		t.Fatal("Metrics should be fully initialized")
	}
	// Private registries let several instances coexist.
	_ = NewMetrics()
}

func TestMetrics_ObserveRender(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.ObserveRender(render.Stats{Pixels: 100, Bounded: 25, Escaped: 75}, 40*time.Millisecond)
	m.ObserveRender(render.Stats{Pixels: 50, Bounded: 10, Escaped: 40}, 10*time.Millisecond)

	body := scrape(t, m)
	for _, want := range []string{
		"mandelcalc_frames_total 2",
		"mandelcalc_pixels_total 150",
		"mandelcalc_bounded_ratio 0.2",
		"mandelcalc_render_duration_seconds_count 2",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output should contain %q", want)
		}
	}
}

func TestMetrics_Requests(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.IncrementActiveRequests()
	m.IncrementActiveRequests()
	m.DecrementActiveRequests()
	m.ObserveRequest("/evaluate", http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest("/evaluate", http.StatusBadRequest, time.Millisecond)

	body := scrape(t, m)
	for _, want := range []string{
		"mandelcalc_active_requests 1",
		`mandelcalc_requests_total{code="200",path="/evaluate"} 1`,
		`mandelcalc_requests_total{code="400",path="/evaluate"} 1`,
		`mandelcalc_request_duration_seconds_count{path="/evaluate"} 2`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output should contain %q", want)
		}
	}
}
