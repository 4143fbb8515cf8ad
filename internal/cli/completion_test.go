package cli

import (
	"bytes"
	"strings"
	"testing"
)

var testSources = CompletionSources{
	Palettes: []string{"fire", "gray", "ultra"},
	Regions:  []string{"full", "seahorse-valley"},
}

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{"complete -F _mandelcalc_completions mandelcalc", `palettes="fire gray ultra"`, "--max-iter", "--width|--height", "--output|-o"}},
		{"zsh", []string{"#compdef mandelcalc", "regions=(full seahorse-valley)", "'--palette[Colour palette]:palette:($palettes)'", "{-q,--quiet}"}},
		{"fish", []string{"complete -c mandelcalc -f", "-l region -d 'Named landmark' -xa 'full seahorse-valley'", "-s o -l output", "# Modes"}},
		{"powershell", []string{"Register-ArgumentCompleter -CommandName 'mandelcalc'", "'--palette' {", "@('fire', 'gray', 'ultra')"}},
		{"ps", []string{"Register-ArgumentCompleter"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell, testSources); err != nil {
				t.Fatalf("GenerateCompletion(%q): %v", tt.shell, err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script should contain %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := GenerateCompletion(&buf, "tcsh", testSources); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}

func TestFlagRegistry_CoversEveryFlag(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for _, f := range flagRegistry {
		key := flagKey(f)
		if seen[key] {
			t.Errorf("duplicate registry entry %q", key)
		}
		seen[key] = true
	}
	for _, name := range []string{"re", "im", "scale", "zoom", "region", "palette", "output", "point", "tui", "interactive", "serve", "no-color", "completion"} {
		if !seen[name] {
			t.Errorf("registry is missing --%s", name)
		}
	}
}

func TestFilterFlags(t *testing.T) {
	t.Parallel()
	got := filterFlags("quiet", "nope", "re")
	if len(got) != 2 || got[0].Long != "quiet" || got[1].Long != "re" {
		t.Errorf("filterFlags() = %+v", got)
	}
}
