// Package render evaluates a viewport into a frame of escape results.
//
// Rows are grouped into full-width bands and evaluated concurrently. Every
// pixel is written exactly once at its own index, so workers share no locks.
// Progress flows to the presentation layer over a channel consumed by a
// ProgressReporter, which keeps this package free of UI concerns.
package render
