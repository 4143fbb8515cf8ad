// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the MANDELCALC_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
// Values that fail to parse are ignored.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// setFloat stores v in dst when it parses as a float.
func setFloat(dst *float64, v string) {
	if parsed, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = parsed
	}
}

// envOverrides is the declarative table of all environment variable overrides,
// grouped as numeric, duration, string and bool.
var envOverrides = []envOverride{
	// Numeric overrides
	{"RE", []string{"re"}, func(c *AppConfig, v string) { setFloat(&c.Re, v) }},
	{"IM", []string{"im"}, func(c *AppConfig, v string) { setFloat(&c.Im, v) }},
	{"SCALE", []string{"scale"}, func(c *AppConfig, v string) { setFloat(&c.Scale, v) }},
	{"ZOOM", []string{"zoom"}, func(c *AppConfig, v string) { setFloat(&c.Zoom, v) }},
	{"ROTATE", []string{"rotate"}, func(c *AppConfig, v string) { setFloat(&c.Rotation, v) }},
	{"RADIUS", []string{"radius"}, func(c *AppConfig, v string) { setFloat(&c.EscapeRadius, v) }},
	{"WIDTH", []string{"width"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Width = parsed
		}
	}},
	{"HEIGHT", []string{"height"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Height = parsed
		}
	}},
	{"MAX_ITER", []string{"max-iter"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.MaxIterations = parsed
		}
	}},
	{"WORKERS", []string{"workers"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Workers = parsed
		}
	}},
	{"TILE_ROWS", []string{"tile-rows"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.TileRows = parsed
		}
	}},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// String overrides
	{"REGION", []string{"region"}, func(c *AppConfig, v string) {
		c.Region = v
	}},
	{"PALETTE", []string{"palette"}, func(c *AppConfig, v string) {
		c.Palette = v
	}},
	{"OUTPUT", []string{"output", "o"}, func(c *AppConfig, v string) {
		c.OutputFile = v
	}},
	{"SERVE", []string{"serve"}, func(c *AppConfig, v string) {
		c.ServeAddr = v
	}},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) {
		c.LogLevel = v
	}},

	// Boolean overrides
	{"VERBOSE", []string{"v", "verbose"}, func(c *AppConfig, v string) {
		c.Verbose = parseBoolEnv(v, c.Verbose)
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"ASCII", []string{"ascii"}, func(c *AppConfig, v string) {
		c.ASCII = parseBoolEnv(v, c.ASCII)
	}},
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) {
		c.TUI = parseBoolEnv(v, c.TUI)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables (all prefixed with MANDELCALC_):
//   - RE, IM, SCALE, ZOOM, ROTATE, RADIUS, WIDTH, HEIGHT, MAX_ITER,
//     WORKERS, TILE_ROWS, TIMEOUT, REGION, PALETTE, OUTPUT, SERVE,
//     LOG_LEVEL, VERBOSE, QUIET, ASCII, TUI
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
