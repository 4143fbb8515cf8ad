// Package logging provides the structured logging interface used across
// mandelcalc. Components depend on Logger; the default backend is zerolog,
// with a standard-library adapter for embedding and tests.
package logging
