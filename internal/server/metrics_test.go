package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agbru/mandelcalc/internal/logging"
	"github.com/agbru/mandelcalc/internal/metrics"
)

// TestMetrics_WritePrometheus tests the Prometheus metrics endpoint.
func TestMetrics_WritePrometheus(t *testing.T) {
	m := metrics.NewMetrics()

	m.IncrementActiveRequests()
	defer m.DecrementActiveRequests()
	m.ObserveRequest("/evaluate", http.StatusOK, 5*time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	rec := httptest.NewRecorder()

	m.WritePrometheus(rec, req)

	body := rec.Body.String()

	t.Run("Contains active requests metric", func(t *testing.T) {
		if !strings.Contains(body, "mandelcalc_active_requests 1") {
			t.Error("metrics output should contain mandelcalc_active_requests 1")
		}
	})

	t.Run("Contains total requests metric", func(t *testing.T) {
		if !strings.Contains(body, `mandelcalc_requests_total{code="200",path="/evaluate"} 1`) {
			t.Errorf("metrics output should count the /evaluate request, got:\n%s", body)
		}
	})

	t.Run("Contains Go runtime metrics", func(t *testing.T) {
		if !strings.Contains(body, "go_") {
			t.Error("metrics output should contain Go runtime metrics")
		}
	})
}

// TestServer_metricsMiddleware tests the metrics tracking middleware.
func TestServer_metricsMiddleware(t *testing.T) {
	t.Run("Next handler is called", func(t *testing.T) {
		s := &Server{
			metrics: metrics.NewMetrics(),
		}

		nextCalled := false
		next := func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
			w.WriteHeader(http.StatusOK)
		}

		handler := s.metricsMiddleware(next)
		req := httptest.NewRequest("GET", "/test", http.NoBody)
		rec := httptest.NewRecorder()

		handler(rec, req)

		if !nextCalled {
			t.Error("next handler was not called")
		}
	})

	t.Run("Status code is recorded", func(t *testing.T) {
		s := &Server{
			metrics: metrics.NewMetrics(),
		}

		next := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}

		handler := s.metricsMiddleware(next)
		req := httptest.NewRequest("GET", "/test", http.NoBody)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusTeapot {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
		}
		body := scrape(t, s)
		if !strings.Contains(body, `mandelcalc_requests_total{code="418",path="/test"} 1`) {
			t.Errorf("request should be counted with code 418, got:\n%s", body)
		}
		if !strings.Contains(body, "mandelcalc_active_requests 0") {
			t.Error("active requests should return to zero")
		}
	})

	t.Run("Implicit 200 is recorded", func(t *testing.T) {
		s := &Server{
			metrics: metrics.NewMetrics(),
		}

		next := func(w http.ResponseWriter, r *http.Request) {}

		handler := s.metricsMiddleware(next)
		req := httptest.NewRequest("GET", "/quiet", http.NoBody)
		handler(httptest.NewRecorder(), req)

		if body := scrape(t, s); !strings.Contains(body, `mandelcalc_requests_total{code="200",path="/quiet"} 1`) {
			t.Errorf("handler without WriteHeader should count as 200, got:\n%s", body)
		}
	})
}

// TestServer_handleMetrics tests the /metrics endpoint handler.
func TestServer_handleMetrics(t *testing.T) {
	t.Run("GET returns metrics", func(t *testing.T) {
		s := &Server{
			metrics: metrics.NewMetrics(),
		}

		req := httptest.NewRequest("GET", "/metrics", http.NoBody)
		rec := httptest.NewRecorder()

		s.handleMetrics(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		body := rec.Body.String()
		if !strings.Contains(body, "mandelcalc_") {
			t.Error("response should contain mandelcalc metrics")
		}
	})

	t.Run("POST returns method not allowed", func(t *testing.T) {
		s := &Server{
			metrics: metrics.NewMetrics(),
			logger:  newTestLogger(),
		}

		req := httptest.NewRequest("POST", "/metrics", http.NoBody)
		rec := httptest.NewRecorder()

		s.handleMetrics(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})

	t.Run("PUT returns method not allowed", func(t *testing.T) {
		s := &Server{
			metrics: metrics.NewMetrics(),
			logger:  newTestLogger(),
		}

		req := httptest.NewRequest("PUT", "/metrics", http.NoBody)
		rec := httptest.NewRecorder()

		s.handleMetrics(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})
}

func scrape(t *testing.T, s *Server) string {
	t.Helper()
	rec := httptest.NewRecorder()
	s.metrics.WritePrometheus(rec, httptest.NewRequest("GET", "/metrics", http.NoBody))
	return rec.Body.String()
}

// testLogger is a minimal logger for testing that implements logging.Logger.
type testLogger struct{}

func newTestLogger() *testLogger                                  { return &testLogger{} }
func (l *testLogger) Info(_ string, _ ...logging.Field)           {}
func (l *testLogger) Error(_ string, _ error, _ ...logging.Field) {}
func (l *testLogger) Debug(_ string, _ ...logging.Field)          {}
func (l *testLogger) Printf(_ string, _ ...any)                   {}
func (l *testLogger) Println(_ ...any)                             {}
