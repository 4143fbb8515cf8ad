package tui

import (
	"time"

	"github.com/agbru/mandelcalc/internal/render"
)

// ProgressMsg reports the completed fraction of the render of one generation.
type ProgressMsg struct {
	Value      float64
	Generation uint64
}

// FrameMsg delivers a finished render, or the error that ended it.
type FrameMsg struct {
	Frame      *render.Frame
	Err        error
	Generation uint64
}

// TickMsg drives the periodic memory sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	HeapAlloc    uint64
	Sys          uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// ContextCancelledMsg is sent when the parent context ends.
type ContextCancelledMsg struct {
	Err error
}
