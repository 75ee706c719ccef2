// Package config parses the numkit command line, environment and optional
// YAML configuration file into an AppConfig.
//
// Resolution order (highest priority first):
//  1. CLI flags
//  2. Environment variables (NUMKIT_*)
//  3. YAML configuration file (--config)
//  4. Defaults
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/numkit/internal/errors"
)

// EnvPrefix is prepended to every environment variable the application reads.
const EnvPrefix = "NUMKIT_"

// Defaults.
const (
	DefaultAddr            = ":8080"
	DefaultTimeout         = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultBenchTime       = time.Second
	DefaultBenchParallel   = 1
	DefaultLogLevel        = "info"
	DefaultMaxBodyBytes    = 1 << 20
)

// Mode is the top-level action selected on the command line.
type Mode string

const (
	ModeDemo  Mode = "demo"
	ModeCall  Mode = "call"
	ModeREPL  Mode = "repl"
	ModeServe Mode = "serve"
	ModeBench Mode = "bench"
	// ModeCompletion prints a shell completion script.
	ModeCompletion Mode = "completion"
)

// CompletionShells lists the shells --completion accepts.
var CompletionShells = []string{"bash", "zsh", "fish"}

// AppConfig holds every setting the application reads.
type AppConfig struct {
	// Call is the bound function invoked in call mode; CallArgs are its
	// positional arguments as typed on the command line.
	Call     string
	CallArgs []string

	REPL  bool
	Serve bool
	Bench bool
	// Completion names the shell whose completion script is printed.
	Completion string

	// Addr is the listen address in serve mode.
	Addr string
	// Timeout bounds a single call, REPL command or the whole benchmark run.
	Timeout time.Duration
	// ShutdownTimeout bounds graceful server shutdown.
	ShutdownTimeout time.Duration
	// AllowedOrigins lists the CORS origins accepted in serve mode.
	AllowedOrigins []string
	// MaxBodyBytes caps HTTP request bodies in serve mode.
	MaxBodyBytes int64

	// BenchFilter keeps only benchmarks whose name contains it.
	BenchFilter string
	// BenchParallel is how many benchmarks run at once.
	BenchParallel int
	// BenchTime is the target duration of each benchmark.
	BenchTime time.Duration
	// TUI shows the interactive dashboard instead of the progress bar.
	TUI bool

	Quiet    bool
	Verbose  bool
	NoColor  bool
	JSON     bool
	LogLevel string

	// ConfigFile is the optional YAML file that was loaded.
	ConfigFile string
}

// Default returns the configuration used when nothing is specified.
func Default() AppConfig {
	return AppConfig{
		Addr:            DefaultAddr,
		Timeout:         DefaultTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		AllowedOrigins:  []string{"*"},
		MaxBodyBytes:    DefaultMaxBodyBytes,
		BenchParallel:   DefaultBenchParallel,
		BenchTime:       DefaultBenchTime,
		LogLevel:        DefaultLogLevel,
	}
}

// Mode reports which action the configuration selects.
func (c AppConfig) Mode() Mode {
	switch {
	case c.Call != "":
		return ModeCall
	case c.REPL:
		return ModeREPL
	case c.Serve:
		return ModeServe
	case c.Bench:
		return ModeBench
	case c.Completion != "":
		return ModeCompletion
	default:
		return ModeDemo
	}
}

// Validate checks cross-field constraints.
func (c AppConfig) Validate() error {
	selected := 0
	for _, on := range []bool{c.Call != "", c.REPL, c.Serve, c.Bench, c.Completion != ""} {
		if on {
			selected++
		}
	}
	if selected > 1 {
		return apperrors.NewConfigError("--call, --repl, --serve, --bench and --completion are mutually exclusive")
	}
	if c.Completion != "" && !slices.Contains(CompletionShells, c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q for --completion (accepted values: %s)", c.Completion, strings.Join(CompletionShells, ", "))
	}
	if c.Call == "" && len(c.CallArgs) > 0 {
		return apperrors.NewConfigError("unexpected arguments %q (did you mean --call NAME ...?)", c.CallArgs)
	}
	if c.Bench && c.TUI && (c.JSON || c.Quiet) {
		return apperrors.NewConfigError("--tui cannot be combined with --json or --quiet")
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose cannot be combined")
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	}
	if c.ShutdownTimeout <= 0 {
		return apperrors.NewConfigError("--shutdown-timeout must be positive, got %s", c.ShutdownTimeout)
	}
	if c.BenchParallel < 1 {
		return apperrors.NewConfigError("--bench-parallel must be at least 1, got %d", c.BenchParallel)
	}
	if c.BenchTime <= 0 {
		return apperrors.NewConfigError("--bench-time must be positive, got %s", c.BenchTime)
	}
	if c.MaxBodyBytes <= 0 {
		return apperrors.NewConfigError("--max-body must be positive, got %d", c.MaxBodyBytes)
	}
	if c.Serve && c.Addr == "" {
		return apperrors.NewConfigError("--addr is required with --serve")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error", "disabled":
	default:
		return apperrors.NewConfigError("unknown --log-level %q", c.LogLevel)
	}
	return nil
}

// ParseConfig parses args (without the program name) into an AppConfig.
// Usage and parse errors are written to errWriter. When --help is given the
// returned error wraps flag.ErrHelp.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := Default()
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = func() { printUsage(fs, programName) }

	var origins string
	fs.StringVar(&cfg.Call, "call", "", "Invoke one bound function with the remaining arguments.")
	fs.BoolVar(&cfg.REPL, "repl", false, "Start an interactive session.")
	fs.BoolVar(&cfg.Serve, "serve", false, "Serve the binding module over HTTP.")
	fs.BoolVar(&cfg.Bench, "bench", false, "Run the benchmark suite.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script for bash, zsh or fish.")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address in serve mode.")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Time limit for a call, a REPL command or the benchmark run.")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown limit in serve mode.")
	fs.StringVar(&origins, "allowed-origins", strings.Join(cfg.AllowedOrigins, ","), "Comma-separated CORS origins in serve mode.")
	fs.Int64Var(&cfg.MaxBodyBytes, "max-body", cfg.MaxBodyBytes, "Maximum HTTP request body size in bytes.")
	fs.StringVar(&cfg.BenchFilter, "bench-filter", "", "Only run benchmarks whose name contains this text.")
	fs.IntVar(&cfg.BenchParallel, "bench-parallel", cfg.BenchParallel, "Number of benchmarks run at once.")
	fs.DurationVar(&cfg.BenchTime, "bench-time", cfg.BenchTime, "Target duration of each benchmark.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Show the interactive benchmark dashboard.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print bare results only.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Print extra detail.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&cfg.JSON, "json", false, "Print results as JSON.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error or disabled.")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Path to a YAML configuration file.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, apperrors.WrapError(apperrors.NewConfigError("%v", err), "parsing flags")
	}
	cfg.CallArgs = fs.Args()
	cfg.AllowedOrigins = splitList(origins)

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = getEnvString("CONFIG", "")
	}
	if cfg.ConfigFile != "" {
		fileCfg, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return cfg, err
		}
		fileCfg.applyTo(&cfg, fs)
	}
	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errWriter, "Error: %v\n", err)
		return cfg, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printUsage(fs *flag.FlagSet, programName string) {
	out := fs.Output()
	fmt.Fprintf(out, "Usage: %s [flags]\n", programName)
	fmt.Fprintf(out, "       %s --call NAME [ARGS...]\n\n", programName)
	fmt.Fprintf(out, "Without a mode flag, %s runs a short demonstration of every bound symbol.\n", programName)
	fmt.Fprintf(out, "Use -- before negative call arguments, e.g. --call sort_numbers -- -3 1 2.\n\n")
	fmt.Fprintf(out, "Flags:\n")
	fs.PrintDefaults()
	fmt.Fprintf(out, "\nEvery flag can also be set through a %s<NAME> environment variable,\n", EnvPrefix)
	fmt.Fprintf(out, "e.g. %sTIMEOUT=5s or %sLOG_LEVEL=debug.\n", EnvPrefix, EnvPrefix)
}
