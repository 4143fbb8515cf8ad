package render

import "image"

// SplitRows cuts r into full-width bands of at most rows rows. The last band
// takes the remainder.
func SplitRows(r image.Rectangle, rows int) []image.Rectangle {
	rows = max(rows, 1)
	bands := make([]image.Rectangle, 0, (r.Dy()+rows-1)/rows)
	for y := r.Min.Y; y < r.Max.Y; y += rows {
		bands = append(bands, image.Rect(r.Min.X, y, r.Max.X, min(y+rows, r.Max.Y)))
	}
	return bands
}
