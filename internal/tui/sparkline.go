package tui

// sparklineChars maps levels 0..7 to the block elements ▁▂▃▄▅▆▇█.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RingBuffer is a fixed-capacity circular buffer for float64 samples.
type RingBuffer struct {
	data  []float64
	head  int
	count int
}

// NewRingBuffer creates a ring buffer with the given capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingBuffer{data: make([]float64, capacity)}
}

// Push adds a sample, overwriting the oldest if full.
func (r *RingBuffer) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// Len returns the number of valid samples.
func (r *RingBuffer) Len() int { return r.count }

// Cap returns the buffer capacity.
func (r *RingBuffer) Cap() int { return len(r.data) }

// Last returns the most recent sample, or 0 if empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	idx := r.head - 1
	if idx < 0 {
		idx = len(r.data) - 1
	}
	return r.data[idx]
}

// Slice returns samples in chronological order (oldest first).
func (r *RingBuffer) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	result := make([]float64, r.count)
	start := r.head - r.count
	if start < 0 {
		start += len(r.data)
	}
	for i := range r.count {
		result[i] = r.data[(start+i)%len(r.data)]
	}
	return result
}

// Resize changes the capacity, preserving the most recent samples that fit.
func (r *RingBuffer) Resize(newCap int) {
	if newCap <= 0 {
		newCap = 1
	}
	if newCap == len(r.data) {
		return
	}
	old := r.Slice()
	r.data = make([]float64, newCap)
	r.head = 0
	r.count = 0
	start := 0
	if len(old) > newCap {
		start = len(old) - newCap
	}
	for _, v := range old[start:] {
		r.Push(v)
	}
}

// Reset clears all samples.
func (r *RingBuffer) Reset() {
	r.head = 0
	r.count = 0
}

// level maps v onto 0..steps-1 relative to peak. Non-positive values and an
// empty peak map to 0.
func level(v, peak float64, steps int) int {
	if peak <= 0 || v <= 0 {
		return 0
	}
	idx := int(v / peak * float64(steps-1))
	return min(max(idx, 0), steps-1)
}

func peakOf(values []float64) float64 {
	var peak float64
	for _, v := range values {
		peak = max(peak, v)
	}
	return peak
}

// RenderSparkline draws values as block elements scaled to their maximum,
// so the tallest sample is always a full block.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	peak := peakOf(values)
	runes := make([]rune, len(values))
	for i, v := range values {
		runes[i] = sparklineChars[level(v, peak, len(sparklineChars))]
	}
	return string(runes)
}

// HistogramSparkline draws bucket counts as a sparkline.
func HistogramSparkline(counts []int) string {
	values := make([]float64, len(counts))
	for i, c := range counts {
		values[i] = float64(c)
	}
	return RenderSparkline(values)
}

// brailleDots maps (col 0-1, row 0-3) to the braille dot bit offsets.
// Braille character = U+2800 + sum of activated dot bits.
// Column 0: dots 1,2,3,7 (bits 0,1,2,6)
// Column 1: dots 4,5,6,8 (bits 3,4,5,7)
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40}, // left column
	{0x08, 0x10, 0x20, 0x80}, // right column
}

// RenderBrailleChart plots values as a braille dot chart of rows text rows
// and width columns, scaled to the largest value. Each character holds two
// samples side by side and four vertical levels; the most recent samples
// are on the right.
func RenderBrailleChart(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}

	dotRows := rows * 4
	dotCols := width * 2

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, width)
		for c := range grid[r] {
			grid[r][c] = 0x2800
		}
	}

	startIdx := 0
	if len(values) > dotCols {
		startIdx = len(values) - dotCols
	}
	visible := values[startIdx:]
	peak := peakOf(visible)
	offset := dotCols - len(visible)

	for i, v := range visible {
		dotCol := offset + i
		// Row 0 is the top of the chart.
		dotRow := dotRows - 1 - level(v, peak, dotRows)

		charCol, subCol := dotCol/2, dotCol%2
		charRow, subRow := dotRow/4, dotRow%4
		grid[charRow][charCol] |= brailleDots[subCol][subRow]
	}

	result := make([]string, rows)
	for r := range grid {
		result[r] = string(grid[r])
	}
	return result
}
