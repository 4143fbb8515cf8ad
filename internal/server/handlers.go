package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/agbru/mandelcalc/internal/complexnum"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/logging"
	"github.com/agbru/mandelcalc/internal/palette"
	"github.com/agbru/mandelcalc/internal/render"
	"github.com/agbru/mandelcalc/internal/viewport"
)

const (
	// DefaultRenderWidth and DefaultRenderHeight size /render.png when the
	// request omits width or height.
	DefaultRenderWidth  = 600
	DefaultRenderHeight = 450
)

// EvaluateResponse is the body of GET /evaluate.
type EvaluateResponse struct {
	Re            float64 `json:"re"`
	Im            float64 `json:"im"`
	Escaped       bool    `json:"escaped"`
	Iteration     int     `json:"iteration"`
	MaxIterations int     `json:"maxIterations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// handleEvaluate answers GET /evaluate?re=&im=[&iter=][&radius=].
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	q := r.URL.Query()
	p := params{values: q}
	re := p.requiredFloat("re")
	im := p.requiredFloat("im")
	maxIter := p.int("iter", s.config.MaxIterations)
	radius := p.float("radius", s.config.EscapeRadius)
	if p.err == nil {
		p.err = s.checkIterations(maxIter)
	}
	if p.err != nil {
		writeError(w, http.StatusBadRequest, p.err)
		return
	}

	c := complexnum.New(re, im)
	result, err := escape.Evaluate(c, maxIter, radius)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, EvaluateResponse{
		Re:            re,
		Im:            im,
		Escaped:       !result.IsBounded(),
		Iteration:     result.Iteration(),
		MaxIterations: maxIter,
	})
}

// handleRender answers GET /render.png with a view given either by
// region=<landmark> or by re, im and scale, plus width, height, rotate,
// iter, radius and palette.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	vp, opts, pal, err := s.parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RenderTimeout)
	defer cancel()

	start := time.Now()
	frame, err := s.renderer.Render(ctx, vp, opts)
	if err != nil {
		s.writeRenderError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame.Image(pal)); err != nil {
		s.logger.Error("PNG encoding failed", err)
		writeError(w, http.StatusInternalServerError, errors.New("encoding failed"))
		return
	}

	stats := frame.Stats()
	s.logger.Debug("frame rendered",
		logging.String("view", vp.String()),
		logging.Int("iterations", opts.MaxIterations),
		logging.Duration("elapsed", time.Since(start)))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Duration", frame.Elapsed.String())
	w.Header().Set("X-Bounded-Ratio", strconv.FormatFloat(stats.BoundedRatio(), 'f', 4, 64))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) parseRenderRequest(q url.Values) (viewport.Viewport, render.Options, palette.Palette, error) {
	p := params{values: q}
	width := p.int("width", DefaultRenderWidth)
	height := p.int("height", DefaultRenderHeight)
	maxIter := p.int("iter", s.config.MaxIterations)
	radius := p.float("radius", s.config.EscapeRadius)
	rotation := p.float("rotate", 0)
	if p.err != nil {
		return viewport.Viewport{}, render.Options{}, nil, p.err
	}
	if width <= 0 || height <= 0 || width*height > s.security.MaxPixels {
		return viewport.Viewport{}, render.Options{}, nil, apperrors.ValidationError{
			Field:   "size",
			Message: fmt.Sprintf("width and height must be positive with at most %d pixels, got %dx%d", s.security.MaxPixels, width, height),
		}
	}
	if err := s.checkIterations(maxIter); err != nil {
		return viewport.Viewport{}, render.Options{}, nil, err
	}

	paletteName := q.Get("palette")
	if paletteName == "" {
		paletteName = s.config.Palette
	}
	pal, err := palette.ByName(paletteName)
	if err != nil {
		return viewport.Viewport{}, render.Options{}, nil, err
	}

	var vp viewport.Viewport
	if region := q.Get("region"); region != "" {
		vp, err = viewport.Landmark(region, width, height)
	} else {
		full, ferr := viewport.Default(width, height)
		if ferr != nil {
			return viewport.Viewport{}, render.Options{}, nil, ferr
		}
		center := complexnum.New(p.float("re", full.Center.Real()), p.float("im", full.Center.Imaginary()))
		scale := p.float("scale", full.Scale)
		if p.err != nil {
			return viewport.Viewport{}, render.Options{}, nil, p.err
		}
		vp, err = viewport.New(center, scale, width, height)
	}
	if err != nil {
		return viewport.Viewport{}, render.Options{}, nil, err
	}

	opts := render.Options{
		MaxIterations: maxIter,
		EscapeRadius:  radius,
		Workers:       s.config.Workers,
		Recorder:      s.metrics,
	}
	return vp.Rotate(rotation), opts, pal, nil
}

func (s *Server) checkIterations(n int) error {
	if n > s.security.MaxIterations {
		return apperrors.ValidationError{
			Field:   "iter",
			Message: fmt.Sprintf("must not exceed %d, got %d", s.security.MaxIterations, n),
		}
	}
	return nil
}

func (s *Server) writeRenderError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr apperrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Info("render timed out", logging.String("query", r.URL.RawQuery))
		writeError(w, http.StatusServiceUnavailable, errors.New("render timed out"))
	case errors.Is(err, context.Canceled):
		// The client went away; nobody reads the response.
		s.logger.Debug("render canceled", logging.String("query", r.URL.RawQuery))
	default:
		s.logger.Error("render failed", err, logging.String("query", r.URL.RawQuery))
		writeError(w, http.StatusInternalServerError, errors.New("render failed"))
	}
}

// requireGET rejects methods other than GET and HEAD with 405.
func (s *Server) requireGET(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD, OPTIONS")
	if s.logger != nil {
		s.logger.Debug("method not allowed", logging.String("method", r.Method), logging.String("path", r.URL.Path))
	}
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	return false
}

// params parses query values, keeping the first error.
type params struct {
	values url.Values
	err    error
}

func (p *params) float(name string, def float64) float64 {
	raw := p.values.Get(name)
	if raw == "" || p.err != nil {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.err = apperrors.ValidationError{Field: name, Message: fmt.Sprintf("not a number: %q", raw), Cause: err}
		return def
	}
	// ParseFloat accepts "NaN" and "Inf", which no coordinate or radius may be.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		p.err = apperrors.ValidationError{Field: name, Message: fmt.Sprintf("must be a finite number, got %q", raw)}
		return def
	}
	return v
}

func (p *params) requiredFloat(name string) float64 {
	if p.err == nil && p.values.Get(name) == "" {
		p.err = apperrors.ValidationError{Field: name, Message: "is required"}
		return 0
	}
	return p.float(name, 0)
}

func (p *params) int(name string, def int) int {
	raw := p.values.Get(name)
	if raw == "" || p.err != nil {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.err = apperrors.ValidationError{Field: name, Message: fmt.Sprintf("not an integer: %q", raw), Cause: err}
		return def
	}
	return v
}

// writeJSON encodes body before committing the status, so a value that
// cannot be marshalled turns into a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
