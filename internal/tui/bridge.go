package tui

import (
	"context"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/mandelcalc/internal/render"
	"github.com/agbru/mandelcalc/internal/viewport"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the render goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements render.ProgressReporter.
// It drains the progress channel and forwards updates as bubbletea messages
// tagged with the generation of the render that produced them.
type TUIProgressReporter struct {
	ref        *programRef
	generation uint64
}

// Verify interface compliance.
var _ render.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel and sends ProgressMsg to the TUI.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan render.ProgressUpdate, _ io.Writer) {
	defer wg.Done()
	for update := range progressChan {
		t.ref.Send(ProgressMsg{Value: update.Value, Generation: t.generation})
	}
}

// renderCmd returns a tea.Cmd that renders vp and reports the frame.
func renderCmd(ref *programRef, ctx context.Context, vp viewport.Viewport, opts render.Options, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref, generation: gen}
		frame, err := render.Render(ctx, vp, opts, reporter, io.Discard)
		return FrameMsg{Frame: frame, Err: err, Generation: gen}
	}
}
