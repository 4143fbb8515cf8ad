package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mandelcalc/internal/config"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/metrics"
	"github.com/agbru/mandelcalc/internal/palette"
	"github.com/agbru/mandelcalc/internal/render"
	"github.com/agbru/mandelcalc/internal/ui"
	"github.com/agbru/mandelcalc/internal/viewport"
)

// Navigation steps.
const (
	// PanFraction is the share of the canvas width moved by one pan.
	PanFraction = 0.1
	// ZoomFactor is the magnification applied by one zoom step.
	ZoomFactor = 1.5
	// RotateStep is the rotation applied by one rotate step, in radians.
	RotateStep = math.Pi / 24
	// MaxIterationsCap bounds the iteration cap reachable with i.
	MaxIterationsCap = 1 << 20
)

// Layout constants for the explorer.
const (
	headerHeight = 1
	footerHeight = 1
	// SidePanelWidth is the outer width of the metrics panel.
	SidePanelWidth = 34
)

// ExecutionState holds the render-related fields of a session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// bodyHeight returns the inner height of the body panels.
func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight-2, 1)
}

// canvasWidth returns the inner width of the canvas panel.
func (l LayoutManager) canvasWidth() int {
	return max(l.width-SidePanelWidth-2, 1)
}

// Model is the root bubbletea model of the explorer.
type Model struct {
	header  HeaderModel
	canvas  CanvasModel
	metrics MetricsModel
	help    help.Model

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	ref       *programRef
	memory    *metrics.MemoryCollector

	// start is the view restored by reset; view is the current one.
	start         viewport.Viewport
	view          viewport.Viewport
	sized         bool
	maxIterations int
	startMaxIter  int
	options       render.Options
	showHelp      bool
}

// NewModel creates the explorer model for the view described by cfg.
func NewModel(parentCtx context.Context, cfg config.AppConfig, version string) (Model, error) {
	start, err := cfg.Viewport()
	if err != nil {
		return Model{}, err
	}
	p, err := palette.ByName(cfg.Palette)
	if err != nil {
		return Model{}, err
	}
	color := ui.GetCurrentTheme().Name != ui.NoColorTheme.Name

	return Model{
		header:  NewHeaderModel(version),
		canvas:  NewCanvasModel(p, color),
		metrics: NewMetricsModel(),
		help:    help.New(),
		keymap:  DefaultKeyMap(),
		ExecutionState: ExecutionState{
			cancel: func() {},
		},
		parentCtx:     parentCtx,
		ref:           &programRef{},
		memory:        metrics.NewMemoryCollector(),
		start:         start,
		view:          start,
		maxIterations: cfg.MaxIterations,
		startMaxIter:  cfg.MaxIterations,
		options: render.Options{
			EscapeRadius: cfg.EscapeRadius,
			Workers:      cfg.Workers,
			TileRows:     cfg.TileRows,
		},
	}, nil
}

// Init returns the initial commands. The first render starts once the
// terminal size is known.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		watchContextCmd(m.parentCtx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		w, h := m.canvas.PixelSize()
		if m.sized {
			m.view = resizeView(m.view, w, h)
		} else {
			m.view = fitView(m.start, w, h)
			m.sized = true
		}
		return m.startRender()

	case ProgressMsg:
		if msg.Generation == m.generation {
			m.header.SetProgress(msg.Value)
		}
		return m, nil

	case FrameMsg:
		if msg.Generation != m.generation {
			return m, nil // stale frame from a superseded view
		}
		if msg.Err != nil {
			if !errors.Is(msg.Err, context.Canceled) {
				m.header.SetError(msg.Err)
			}
			return m, nil
		}
		m.canvas.SetFrame(msg.Frame)
		m.metrics.ObserveFrame(msg.Frame)
		m.header.SetDone(msg.Frame.Elapsed)
		return m, nil

	case TickMsg:
		return m, tea.Batch(sampleMemStatsCmd(m.memory), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case ContextCancelledMsg:
		m.cancel()
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := PanFraction * float64(m.view.Width)

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keymap.Left):
		m.view = m.view.Pan(-step, 0)
	case key.Matches(msg, m.keymap.Right):
		m.view = m.view.Pan(step, 0)
	case key.Matches(msg, m.keymap.Up):
		m.view = m.view.Pan(0, -step)
	case key.Matches(msg, m.keymap.Down):
		m.view = m.view.Pan(0, step)
	case key.Matches(msg, m.keymap.ZoomIn):
		m.view = m.view.Zoom(ZoomFactor)
	case key.Matches(msg, m.keymap.ZoomOut):
		m.view = m.view.Zoom(1 / ZoomFactor)
	case key.Matches(msg, m.keymap.RotateLeft):
		m.view = m.view.Rotate(RotateStep)
	case key.Matches(msg, m.keymap.RotateRight):
		m.view = m.view.Rotate(-RotateStep)
	case key.Matches(msg, m.keymap.MoreIter):
		m.maxIterations = min(m.maxIterations*2, MaxIterationsCap)
	case key.Matches(msg, m.keymap.LessIter):
		m.maxIterations = max(m.maxIterations/2, 1)
	case key.Matches(msg, m.keymap.Reset):
		m.view = fitView(m.start, m.view.Width, m.view.Height)
		m.maxIterations = m.startMaxIter

	default:
		return m, nil
	}

	if !m.sized {
		return m, nil
	}
	return m.startRender()
}

// startRender cancels the render in flight and starts one for the current
// view under a new generation.
func (m Model) startRender() (Model, tea.Cmd) {
	m.cancel()
	m.generation++
	m.ctx, m.cancel = context.WithCancel(m.parentCtx)
	m.header.SetView(m.view, m.maxIterations)

	opts := m.options
	opts.MaxIterations = m.maxIterations
	return m, renderCmd(m.ref, m.ctx, m.view, opts, m.generation)
}

// View renders the entire explorer.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	side := m.metrics.View()
	if m.showHelp {
		side = m.helpPanel()
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.View(), side)
	footer := footerStyle.Render(m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, footer)
}

func (m Model) helpPanel() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys"))
	for _, group := range m.keymap.FullHelp() {
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "\n %s %s",
				metricValueStyle.Render(fmt.Sprintf("%-6s", h.Key)),
				metricLabelStyle.Render(h.Desc))
		}
	}
	return panelStyle.
		Width(SidePanelWidth - 2).
		Height(m.bodyHeight()).
		Render(b.String())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.help.Width = m.width - 2
	m.canvas.SetSize(m.canvasWidth(), m.bodyHeight())
	m.metrics.SetSize(SidePanelWidth-2, m.bodyHeight())
}

// fitView returns v resized to w×h pixels with the scale chosen so the whole
// plane area of v stays visible.
func fitView(v viewport.Viewport, w, h int) viewport.Viewport {
	scale := math.Max(v.PlaneWidth()/float64(w), v.PlaneHeight()/float64(h))
	v = v.Resize(w, h)
	v.Scale = scale
	return v
}

// resizeView returns v resized to w×h pixels keeping its plane height, so a
// wider terminal shows more of the plane sideways.
func resizeView(v viewport.Viewport, w, h int) viewport.Viewport {
	scale := v.PlaneHeight() / float64(h)
	v = v.Resize(w, h)
	v.Scale = scale
	return v
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, cfg config.AppConfig, version string, errOut io.Writer) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model, err := NewModel(ctx, cfg, version)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so render goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		m.cancel()
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return apperrors.ExitErrorCanceled
	}
	return apperrors.ExitSuccess
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd(mc *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		s := mc.Snapshot()
		return MemStatsMsg{
			HeapAlloc:    s.HeapAlloc,
			Sys:          s.Sys,
			NumGC:        s.NumGC,
			PauseTotalNs: s.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// watchContextCmd waits for the parent context to end.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
