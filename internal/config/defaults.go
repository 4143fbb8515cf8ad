package config

import "runtime"

// Execution default resolution chain (highest priority first):
//   1. CLI flags (--workers, --tile-rows)
//   2. Environment variables (MANDELCALC_WORKERS, MANDELCALC_TILE_ROWS)
//   3. Adaptive hardware estimation (this file)

// ApplyAdaptiveDefaults fills the execution settings left at zero from the
// hardware and the image size. User-specified values are kept.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateWorkers()
	}
	if cfg.TileRows == 0 {
		cfg.TileRows = EstimateTileRows(cfg.Height, cfg.Workers)
	}
	return cfg
}

// EstimateWorkers returns one worker per logical CPU.
func EstimateWorkers() int {
	return max(runtime.NumCPU(), 1)
}

// EstimateTileRows picks a band height giving each worker several bands, so
// that a slow band near the set boundary does not leave the others idle.
func EstimateTileRows(height, workers int) int {
	const bandsPerWorker = 8
	if height <= 0 {
		return 1
	}
	rows := height / (max(workers, 1) * bandsPerWorker)
	switch {
	case rows < 1:
		return 1
	case rows > 64:
		return 64 // Keeps progress updates frequent on tall images
	default:
		return rows
	}
}
