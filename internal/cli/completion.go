package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/numkit/internal/config"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so adding a flag only requires
// appending to it.
type FlagCompletion struct {
	Long      string   // long flag name without "--"
	Short     string   // short flag without "-"
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free-form)
	ValueName string   // label for the value in zsh; empty for booleans
	IsFile    bool     // the flag takes a file path
	IsCall    bool     // values are the bound function names
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "call", Help: "Invoke one bound function", IsCall: true, ValueName: "function"},
	{Long: "repl", Help: "Start an interactive session"},
	{Long: "serve", Help: "Serve the binding module over HTTP"},
	{Long: "bench", Help: "Run the benchmark suite"},
	{Long: "addr", Help: "Listen address in serve mode", Values: []string{":8080", "127.0.0.1:8080"}, ValueName: "address"},
	{Long: "timeout", Help: "Time limit per call or run", Values: []string{"1s", "5s", "30s", "1m"}, ValueName: "duration"},
	{Long: "shutdown-timeout", Help: "Graceful shutdown limit", Values: []string{"5s", "10s", "30s"}, ValueName: "duration"},
	{Long: "allowed-origins", Help: "Comma-separated CORS origins", ValueName: "origins"},
	{Long: "max-body", Help: "Maximum HTTP request body size", Values: []string{"65536", "1048576"}, ValueName: "bytes"},
	{Long: "bench-filter", Help: "Only run matching benchmarks", Values: []string{"add", "fibonacci", "sort", "calculator", "binding"}, ValueName: "text"},
	{Long: "bench-parallel", Help: "Benchmarks run at once", Values: []string{"1", "2", "4"}, ValueName: "count"},
	{Long: "bench-time", Help: "Target duration per benchmark", Values: []string{"100ms", "500ms", "1s", "2s"}, ValueName: "duration"},
	{Long: "tui", Help: "Show the interactive benchmark dashboard"},
	{Long: "quiet", Short: "q", Help: "Print bare results only"},
	{Long: "verbose", Short: "v", Help: "Print extra detail"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "json", Help: "Print results as JSON"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error", "disabled"}, ValueName: "level"},
	{Long: "config", Help: "YAML configuration file", IsFile: true, ValueName: "file"},
	{Long: "completion", Help: "Print a completion script", Values: config.CompletionShells, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell. functions are
// offered as values of --call.
func GenerateCompletion(out io.Writer, shell string, functions []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, functions)
	case "zsh":
		return generateZshCompletion(out, functions)
	case "fish":
		return generateFishCompletion(out, functions)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(config.CompletionShells, ", "))
	}
}

func valuesFor(f FlagCompletion, functions []string) []string {
	if f.IsCall {
		return functions
	}
	return f.Values
}

func generateBashCompletion(out io.Writer, functions []string) error {
	var opts []string
	for _, f := range flagRegistry {
		opts = append(opts, "--"+f.Long)
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}

	var b strings.Builder
	b.WriteString("# bash completion for numkit\n")
	b.WriteString("_numkit() {\n")
	b.WriteString("    local cur prev opts\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	fmt.Fprintf(&b, "    opts=\"%s\"\n\n", strings.Join(opts, " "))
	b.WriteString("    case \"${prev}\" in\n")
	for _, f := range flagRegistry {
		switch {
		case f.IsFile:
			fmt.Fprintf(&b, "        --%s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n", f.Long)
		case len(valuesFor(f, functions)) > 0:
			fmt.Fprintf(&b, "        --%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				f.Long, strings.Join(valuesFor(f, functions), " "))
		}
	}
	b.WriteString("    esac\n\n")
	b.WriteString("    COMPREPLY=( $(compgen -W \"${opts}\" -- \"${cur}\") )\n")
	b.WriteString("    return 0\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _numkit numkit\n")

	_, err := io.WriteString(out, b.String())
	return err
}

func generateZshCompletion(out io.Writer, functions []string) error {
	var b strings.Builder
	b.WriteString("#compdef numkit\n\n")
	b.WriteString("_numkit() {\n")
	b.WriteString("    _arguments \\\n")
	for i, f := range flagRegistry {
		sep := " \\"
		if i == len(flagRegistry)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "        %s%s\n", zshArgEntry(f, functions), sep)
	}
	b.WriteString("}\n\n")
	b.WriteString("_numkit \"$@\"\n")

	_, err := io.WriteString(out, b.String())
	return err
}

func zshArgEntry(f FlagCompletion, functions []string) string {
	action := ""
	switch {
	case f.IsFile:
		action = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(valuesFor(f, functions)) > 0:
		action = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(valuesFor(f, functions), " "))
	case f.ValueName != "":
		action = fmt.Sprintf(":%s:", f.ValueName)
	}
	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, f.Help, action)
	}
	return fmt.Sprintf("'--%s[%s]%s'", f.Long, f.Help, action)
}

func generateFishCompletion(out io.Writer, functions []string) error {
	var b strings.Builder
	b.WriteString("# fish completion for numkit\n")
	for _, f := range flagRegistry {
		line := "complete -c numkit -l " + f.Long
		if f.Short != "" {
			line += " -s " + f.Short
		}
		switch {
		case f.IsFile:
			line += " -r -F"
		case len(valuesFor(f, functions)) > 0:
			line += fmt.Sprintf(" -x -a '%s'", strings.Join(valuesFor(f, functions), " "))
		case f.ValueName != "":
			line += " -x"
		}
		line += fmt.Sprintf(" -d '%s'", f.Help)
		b.WriteString(line + "\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}
