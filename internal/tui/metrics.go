package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mandelcalc/internal/format"
	"github.com/agbru/mandelcalc/internal/render"
)

const (
	// renderHistory is the number of render durations kept for the chart.
	renderHistory = 64
	// timingChartRows is the height of the render time chart.
	timingChartRows = 3
)

// MetricsModel shows statistics of the last frame, recent render times and
// runtime memory usage.
type MetricsModel struct {
	stats     render.Stats
	histogram []int
	elapsed   time.Duration
	frames    int
	timings   *RingBuffer

	heapAlloc    uint64
	sys          uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int

	width  int
	height int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{timings: NewRingBuffer(renderHistory)}
}

// SetSize updates the inner dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// ObserveFrame records a finished frame.
func (m *MetricsModel) ObserveFrame(frame *render.Frame) {
	m.stats = frame.Stats()
	m.histogram = frame.Histogram(max(m.width-2, 1))
	m.elapsed = frame.Elapsed
	m.frames++
	m.timings.Push(float64(frame.Elapsed.Microseconds()))
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.heapAlloc = msg.HeapAlloc
	m.sys = msg.Sys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// PixelRate returns the pixels per second of the last frame.
func (m MetricsModel) PixelRate() float64 {
	if m.elapsed <= 0 {
		return 0
	}
	return float64(m.stats.Pixels) / m.elapsed.Seconds()
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Frame"))
	if m.frames == 0 {
		rows = append(rows, metricLabelStyle.Render(" waiting for first frame"))
	} else {
		rows = append(rows,
			metricRow("Pixels", format.FormatCount(m.stats.Pixels)),
			metricRow("Bounded", fmt.Sprintf("%.1f%%", 100*m.stats.BoundedRatio())),
			metricRow("Iterations", fmt.Sprintf("%d-%d", m.stats.MinIteration, m.stats.MaxIteration)),
			metricRow("Mean", fmt.Sprintf("%.1f", m.stats.MeanIteration)),
			metricRow("Time", format.FormatRenderTime(m.elapsed)),
			metricRow("Speed", format.FormatPixelRate(m.PixelRate())),
		)
		rows = append(rows, "", titleStyle.Render("Escape histogram"),
			" "+chartBarStyle.Render(HistogramSparkline(m.histogram)))
		if chart := RenderBrailleChart(m.timings.Slice(), max(m.width-2, 1), timingChartRows); chart != nil {
			rows = append(rows, "", titleStyle.Render("Render time"))
			for _, line := range chart {
				rows = append(rows, " "+chartBarStyle.Render(line))
			}
		}
	}

	rows = append(rows, "", titleStyle.Render("Memory"),
		metricRow("Heap", format.FormatBytes(m.heapAlloc)+" / "+format.FormatBytes(m.sys)),
		metricRow("GC Runs", fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6)),
		metricRow("Goroutines", fmt.Sprintf("%d", m.numGoroutine)),
	)

	return panelStyle.
		Width(m.width).
		Height(m.height).
		MaxHeight(m.height + 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func metricRow(label, value string) string {
	return fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-11s", label+":")),
		metricValueStyle.Render(value))
}
