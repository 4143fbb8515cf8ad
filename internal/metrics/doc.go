// Package metrics exposes render and request metrics to Prometheus and
// reads runtime memory statistics for verbose output.
package metrics
