package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "help")
	Short     string   // short flag without "-" (e.g., "q")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "number", "duration")
	IsFile    bool     // true if the flag takes a file path
	Dynamic   string   // "palette" or "region" when values come from a registry
	BashGroup string   // flags with same non-empty BashGroup share a bash case entry
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "re", Help: "Real part of the view centre", ValueName: "number"},
	{Long: "im", Help: "Imaginary part of the view centre", ValueName: "number"},
	{Long: "scale", Help: "Plane units per pixel", ValueName: "number"},
	{Long: "zoom", Help: "Plane height of the view", ValueName: "number"},
	{Long: "region", Help: "Named landmark", Dynamic: "region", ValueName: "region"},
	{Long: "rotate", Help: "View rotation in radians", ValueName: "radians"},
	{Long: "width", Help: "Image width in pixels", Values: []string{"320", "800", "1200", "1920", "3840"}, ValueName: "pixels", BashGroup: "size"},
	{Long: "height", Help: "Image height in pixels", Values: []string{"240", "600", "900", "1080", "2160"}, ValueName: "pixels", BashGroup: "size"},
	{Long: "max-iter", Help: "Iteration cap per point", Values: []string{"100", "500", "1000", "5000", "20000"}, ValueName: "count"},
	{Long: "radius", Help: "Escape radius", Values: []string{"2", "4", "16", "256"}, ValueName: "number"},
	{Long: "workers", Help: "Parallel render workers", ValueName: "count"},
	{Long: "tile-rows", Help: "Rows per render tile", ValueName: "count"},
	{Long: "palette", Help: "Colour palette", Dynamic: "palette", ValueName: "palette"},
	{Long: "output", Short: "o", Help: "PNG output path", IsFile: true, ValueName: "file"},
	{Long: "ascii", Help: "Print a text preview"},
	{Long: "point", Help: "Evaluate a single point re,im", ValueName: "point"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"30s", "1m", "5m", "10m"}, ValueName: "duration"},
	{Long: "tui", Help: "Launch the interactive explorer"},
	{Long: "interactive", Short: "i", Help: "Start the explorer shell"},
	{Long: "serve", Help: "Serve the HTTP API on an address", Values: []string{":8080", "127.0.0.1:8080"}, ValueName: "address"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts"},
	{Long: "verbose", Short: "v", Help: "Show render statistics"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}, ValueName: "shell"},
}

// bashGroupValues defines the completion values used in bash for grouped flags.
// Flags sharing the same BashGroup use these values in the bash case statement.
var bashGroupValues = map[string][]string{
	"size": {"240", "320", "600", "800", "900", "1080", "1200", "1920", "2160", "3840"},
}

// zshHelpOverrides provides shell-specific help text overrides for zsh.
var zshHelpOverrides = map[string]string{
	"point": "Point to evaluate, as re,im",
}

// CompletionSources holds the dynamic value lists offered for --palette and
// --region.
type CompletionSources struct {
	Palettes []string
	Regions  []string
}

// values returns the dynamic list named by kind.
func (s CompletionSources) values(kind string) []string {
	switch kind {
	case "palette":
		return s.Palettes
	case "region":
		return s.Regions
	}
	return nil
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//   - sources: The palette and landmark names to complete.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, sources CompletionSources) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, sources)
	case "zsh":
		return generateZshCompletion(out, sources)
	case "fish":
		return generateFishCompletion(out, sources)
	case "powershell", "ps":
		return generatePowerShellCompletion(out, sources)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

// flagKey returns the identifier used for lookups: Long name if present, else Short.
func flagKey(f FlagCompletion) string {
	if f.Long != "" {
		return f.Long
	}
	return f.Short
}

// shellVar is the script variable holding a dynamic value list.
func shellVar(kind string) string {
	return kind + "s"
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer, sources CompletionSources) error {
	var opts []string
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}

	// Order: dynamic lists, files, static values, then grouped flags.
	type caseEntry struct {
		patterns []string
		body     string
	}
	compgen := func(words string) string {
		return fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, words)
	}
	var orderedCases []caseEntry

	for _, f := range flagRegistry {
		if f.Dynamic != "" {
			orderedCases = append(orderedCases, caseEntry{
				patterns: []string{"--" + f.Long},
				body:     compgen("${" + shellVar(f.Dynamic) + "}"),
			})
		}
	}

	var filePatterns []string
	for _, f := range flagRegistry {
		if f.IsFile {
			if f.Long != "" {
				filePatterns = append(filePatterns, "--"+f.Long)
			}
			if f.Short != "" {
				filePatterns = append(filePatterns, "-"+f.Short)
			}
		}
	}
	if len(filePatterns) > 0 {
		orderedCases = append(orderedCases, caseEntry{
			patterns: filePatterns,
			body: `# PNG completion
            COMPREPLY=( $(compgen -f -X '!*.png' -- "${cur}") $(compgen -d -- "${cur}") )`,
		})
	}

	for _, f := range flagRegistry {
		if f.Dynamic == "" && !f.IsFile && f.BashGroup == "" && len(f.Values) > 0 {
			orderedCases = append(orderedCases, caseEntry{
				patterns: []string{"--" + f.Long},
				body:     compgen(strings.Join(f.Values, " ")),
			})
		}
	}

	seenGroups := map[string]bool{}
	for _, f := range flagRegistry {
		if f.BashGroup != "" && !seenGroups[f.BashGroup] {
			seenGroups[f.BashGroup] = true
			var patterns []string
			for _, gf := range flagRegistry {
				if gf.BashGroup == f.BashGroup {
					patterns = append(patterns, "--"+gf.Long)
				}
			}
			orderedCases = append(orderedCases, caseEntry{
				patterns: patterns,
				body:     compgen(strings.Join(bashGroupValues[f.BashGroup], " ")),
			})
		}
	}

	var caseBody strings.Builder
	for _, c := range orderedCases {
		caseBody.WriteString("        ")
		caseBody.WriteString(strings.Join(c.patterns, "|"))
		caseBody.WriteString(")\n")
		caseBody.WriteString("            ")
		caseBody.WriteString(c.body)
		caseBody.WriteString("\n            return 0\n            ;;\n")
	}

	script := fmt.Sprintf(`# Bash completion script for mandelcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_mandelcalc_completions() {
    local cur prev opts palettes regions
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main options
    opts="%s"

    # Registries
    palettes="%s"
    regions="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _mandelcalc_completions mandelcalc
`, strings.Join(opts, " "), strings.Join(sources.Palettes, " "), strings.Join(sources.Regions, " "), caseBody.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer, sources CompletionSources) error {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}

	script := fmt.Sprintf(`#compdef mandelcalc

# Zsh completion script for mandelcalc
# Add this to your ~/.zshrc or place in $fpath

_mandelcalc() {
    local -a palettes regions
    palettes=(%s)
    regions=(%s)

    _arguments -s \
%s
}

_mandelcalc "$@"
`, strings.Join(sources.Palettes, " "), strings.Join(sources.Regions, " "), strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshHelp returns the help text for a flag in zsh, using an override if available.
func zshHelp(f FlagCompletion) string {
	if override, ok := zshHelpOverrides[flagKey(f)]; ok {
		return override
	}
	return f.Help
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	help := zshHelp(f)

	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files -g '*.png'", f.ValueName)
	case f.Dynamic != "":
		valueSuffix = fmt.Sprintf(":%s:($%s)", f.ValueName, shellVar(f.Dynamic))
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, help, valueSuffix)
	}
	if f.Long != "" {
		return fmt.Sprintf("        '--%s[%s]%s'", f.Long, help, valueSuffix)
	}
	return fmt.Sprintf("        '-%s[%s]%s'", f.Short, help, valueSuffix)
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer, sources CompletionSources) error {
	lines := []string{
		"# Fish completion script for mandelcalc",
		"# Add this to ~/.config/fish/completions/mandelcalc.fish",
		"",
		"# Disable file completion by default",
		"complete -c mandelcalc -f",
		"",
	}

	type section struct {
		comment string
		flags   []FlagCompletion
	}
	sections := []section{
		{comment: "# Help and version", flags: filterFlags("help", "version")},
		{comment: "# View", flags: filterFlags("re", "im", "scale", "zoom", "region", "rotate", "width", "height")},
		{comment: "# Iteration and scheduling", flags: filterFlags("max-iter", "radius", "workers", "tile-rows", "timeout")},
		{comment: "# Modes", flags: filterFlags("point", "tui", "interactive", "serve")},
		{comment: "# Output options", flags: filterFlags("palette", "output", "ascii", "log-level", "no-color", "quiet", "verbose")},
		{comment: "# Completion", flags: filterFlags("completion")},
	}

	for _, sec := range sections {
		lines = append(lines, sec.comment)
		for _, f := range sec.flags {
			lines = append(lines, fishCompleteLine(f, sources))
		}
		lines = append(lines, "")
	}

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// filterFlags returns flags from the registry matching the given identifiers.
func filterFlags(ids ...string) []FlagCompletion {
	var result []FlagCompletion
	for _, id := range ids {
		for _, f := range flagRegistry {
			if flagKey(f) == id {
				result = append(result, f)
				break
			}
		}
	}
	return result
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion, sources CompletionSources) string {
	parts := []string{"complete -c mandelcalc"}

	if f.Short != "" {
		parts = append(parts, fmt.Sprintf("-s %s", f.Short))
	}
	if f.Long != "" {
		parts = append(parts, fmt.Sprintf("-l %s", f.Long))
	}

	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case f.Dynamic != "":
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(sources.values(f.Dynamic), " ")))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}

	return strings.Join(parts, " ")
}

// generatePowerShellCompletion generates a PowerShell completion script.
func generatePowerShellCompletion(out io.Writer, sources CompletionSources) error {
	var optionEntries []string
	for _, f := range flagRegistry {
		if f.Short != "" {
			optionEntries = append(optionEntries, fmt.Sprintf(
				"        @{Name = '-%s'; Description = '%s' }", f.Short, f.Help))
		}
		if f.Long != "" {
			optionEntries = append(optionEntries, fmt.Sprintf(
				"        @{Name = '--%s'; Description = '%s' }", f.Long, f.Help))
		}
	}

	psList := func(values []string) string {
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = fmt.Sprintf("'%s'", v)
		}
		return strings.Join(quoted, ", ")
	}

	var switchEntries []string
	for _, f := range flagRegistry {
		values := f.Values
		if f.Dynamic != "" {
			values = sources.values(f.Dynamic)
		}
		if f.IsFile || f.BashGroup != "" || len(values) == 0 {
			continue
		}
		switchEntries = append(switchEntries, fmt.Sprintf(`        '--%s' {
            @(%s) | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, f.Long, psList(values)))
	}

	script := fmt.Sprintf(`# PowerShell completion script for mandelcalc
# Add this to your $PROFILE

Register-ArgumentCompleter -CommandName 'mandelcalc' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%s
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    # Context-aware completions
    switch ($prevElement) {
%s
    }

    # Default: show options
    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, strings.Join(optionEntries, "\n"), strings.Join(switchEntries, "\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion powershell generation failed: %w", err)
	}
	return nil
}
