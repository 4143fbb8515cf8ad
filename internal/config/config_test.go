package config

import (
	"bytes"
	"errors"
	"flag"
	"math"
	"testing"
	"time"

	"github.com/agbru/mandelcalc/internal/complexnum"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/viewport"
)

func TestParseConfig_Defaults(t *testing.T) {
	var buf bytes.Buffer
	cfg, err := ParseConfig("mandelcalc", nil, &buf)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.MaxIterations != DefaultMaxIterations || cfg.EscapeRadius != 2 {
		t.Errorf("iteration = %d, radius = %g", cfg.MaxIterations, cfg.EscapeRadius)
	}
	if cfg.Timeout != DefaultTimeout || cfg.Palette != "ultra" || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Re != -0.75 || cfg.Im != 0 {
		t.Errorf("centre = (%g, %g)", cfg.Re, cfg.Im)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	var buf bytes.Buffer
	args := []string{
		"--re", "-0.75", "--im", "0.1", "--scale", "0.001",
		"--width", "320", "--height", "200", "--max-iter", "2000",
		"--palette", "fire", "-o", "out.png", "-q", "--timeout", "30s",
	}
	cfg, err := ParseConfig("mandelcalc", args, &buf)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	want := Default()
	want.Re, want.Im, want.Scale = -0.75, 0.1, 0.001
	want.Width, want.Height, want.MaxIterations = 320, 200, 2000
	want.Palette, want.OutputFile, want.Quiet = "fire", "out.png", true
	want.Timeout = 30 * time.Second
	if cfg != want {
		t.Errorf("ParseConfig() =\n%+v\nwant\n%+v", cfg, want)
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"MAX_ITER", "4000")
	t.Setenv(EnvPrefix+"REGION", "seahorse-valley")
	t.Setenv(EnvPrefix+"VERBOSE", "yes")
	t.Setenv(EnvPrefix+"WIDTH", "640")
	t.Setenv(EnvPrefix+"RADIUS", "not-a-number")

	var buf bytes.Buffer
	cfg, err := ParseConfig("mandelcalc", []string{"--width", "100"}, &buf)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.MaxIterations != 4000 {
		t.Errorf("MaxIterations = %d, want 4000 from env", cfg.MaxIterations)
	}
	if cfg.Region != "seahorse-valley" || !cfg.Verbose {
		t.Errorf("Region = %q, Verbose = %v", cfg.Region, cfg.Verbose)
	}
	if cfg.Width != 100 {
		t.Errorf("Width = %d, flag should win over env", cfg.Width)
	}
	if cfg.EscapeRadius != 2 {
		t.Errorf("EscapeRadius = %g, unparsable env should be ignored", cfg.EscapeRadius)
	}
}

func TestParseConfig_ModeFlags(t *testing.T) {
	t.Setenv(EnvPrefix+"NO_COLOR", "1")

	var buf bytes.Buffer
	cfg, err := ParseConfig("mandelcalc", []string{"-i", "--completion", "zsh"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Interactive || cfg.Completion != "zsh" || !cfg.NoColor {
		t.Errorf("Interactive = %v, Completion = %q, NoColor = %v", cfg.Interactive, cfg.Completion, cfg.NoColor)
	}
}

func TestParseConfig_AliasBlocksEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"OUTPUT", "env.png")
	t.Setenv(EnvPrefix+"QUIET", "false")

	var buf bytes.Buffer
	cfg, err := ParseConfig("mandelcalc", []string{"-o", "flag.png", "-q"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputFile != "flag.png" || !cfg.Quiet {
		t.Errorf("OutputFile = %q, Quiet = %v", cfg.OutputFile, cfg.Quiet)
	}
}

func TestParseConfig_Help(t *testing.T) {
	var buf bytes.Buffer
	_, err := ParseConfig("mandelcalc", []string{"--help"}, &buf)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("err = %v, want flag.ErrHelp", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("-max-iter")) {
		t.Errorf("usage should list flags, got: %s", buf.String())
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero width", []string{"--width", "0"}},
		{"negative iterations", []string{"--max-iter", "-1"}},
		{"zero radius", []string{"--radius", "0"}},
		{"negative scale", []string{"--scale", "-1"}},
		{"unknown region", []string{"--region", "atlantis"}},
		{"unknown palette", []string{"--palette", "sepia"}},
		{"bad point", []string{"--point", "1;2"}},
		{"two modes", []string{"--tui", "--serve", ":8080"}},
		{"shell and point", []string{"-i", "--point", "0,0"}},
		{"unknown shell", []string{"--completion", "tcsh"}},
		{"negative workers", []string{"--workers", "-2"}},
		{"stray argument", []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := ParseConfig("mandelcalc", tt.args, &buf)
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("ParseConfig(%v) = %v, want ConfigError", tt.args, err)
			}
		})
	}

	var buf bytes.Buffer
	if _, err := ParseConfig("mandelcalc", []string{"--width", "abc"}, &buf); err == nil {
		t.Error("expected a parse error for a non-numeric width")
	}
}

func TestViewport(t *testing.T) {
	t.Parallel()

	t.Run("default fits the whole set", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		v, err := cfg.Viewport()
		if err != nil {
			t.Fatal(err)
		}
		full, _ := viewport.Default(cfg.Width, cfg.Height)
		if v != full {
			t.Errorf("Viewport() = %+v, want %+v", v, full)
		}
	})

	t.Run("scale wins over zoom", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Re, cfg.Im, cfg.Scale, cfg.Zoom = 0.25, 0.5, 0.01, 3
		v, err := cfg.Viewport()
		if err != nil {
			t.Fatal(err)
		}
		if v.Scale != 0.01 || !v.Center.Equal(complexnum.New(0.25, 0.5)) {
			t.Errorf("Viewport() = %+v", v)
		}
	})

	t.Run("zoom sets the plane height", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Zoom = 0.09
		v, err := cfg.Viewport()
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(v.PlaneHeight()-0.09) > 1e-12 {
			t.Errorf("PlaneHeight() = %g", v.PlaneHeight())
		}
	})

	t.Run("region wins over the centre", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Region, cfg.Re, cfg.Rotation = "seahorse-valley", 5, 0.5
		v, err := cfg.Viewport()
		if err != nil {
			t.Fatal(err)
		}
		if !v.Center.Equal(viewport.Landmarks["seahorse-valley"].Center()) || v.Rotation != 0.5 {
			t.Errorf("Viewport() = %+v", v)
		}
	})
}

func TestParsePoint(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    complexnum.Complex
		wantErr bool
	}{
		{"-0.75,0.1", complexnum.New(-0.75, 0.1), false},
		{" 1 , -2 ", complexnum.New(1, -2), false},
		{"1e-3,0", complexnum.New(0.001, 0), false},
		{"1", complexnum.Complex{}, true},
		{"a,1", complexnum.Complex{}, true},
		{"1,b", complexnum.Complex{}, true},
	}
	for _, tt := range tests {
		got, err := ParsePoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("ParsePoint(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestApplyAdaptiveDefaults(t *testing.T) {
	t.Parallel()
	cfg := ApplyAdaptiveDefaults(AppConfig{Height: 900})
	if cfg.Workers != EstimateWorkers() || cfg.TileRows < 1 {
		t.Errorf("ApplyAdaptiveDefaults = workers %d, rows %d", cfg.Workers, cfg.TileRows)
	}
	kept := ApplyAdaptiveDefaults(AppConfig{Height: 900, Workers: 3, TileRows: 7})
	if kept.Workers != 3 || kept.TileRows != 7 {
		t.Errorf("explicit values were replaced: %+v", kept)
	}
}

func TestEstimateTileRows(t *testing.T) {
	t.Parallel()
	tests := []struct {
		height, workers, want int
	}{
		{900, 4, 28},
		{900, 1, 64},
		{10, 16, 1},
		{0, 4, 1},
		{100, 0, 12},
	}
	for _, tt := range tests {
		if got := EstimateTileRows(tt.height, tt.workers); got != tt.want {
			t.Errorf("EstimateTileRows(%d, %d) = %d, want %d", tt.height, tt.workers, got, tt.want)
		}
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	for _, v := range []string{"true", "1", "YES"} {
		if !parseBoolEnv(v, false) {
			t.Errorf("parseBoolEnv(%q) = false", v)
		}
	}
	for _, v := range []string{"false", "0", "No"} {
		if parseBoolEnv(v, true) {
			t.Errorf("parseBoolEnv(%q) = true", v)
		}
	}
	if !parseBoolEnv("maybe", true) {
		t.Error("unrecognized values should keep the default")
	}
}
