package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnvString reads EnvPrefix+key, falling back to defaultVal when unset
// or empty.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// isFlagSetAny reports whether any of names was given on the command line.
// Aliased flags (-q and --quiet) are checked together.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		for _, n := range names {
			if f.Name == n {
				set = true
			}
		}
	})
	return set
}

// envOverride binds NUMKIT_<key> to the flags it shadows.
type envOverride struct {
	key   string
	flags []string
	apply func(*AppConfig, string)
}

// Setters ignore values that do not parse, leaving the previous layer in
// place.

func intEnv(dst func(*AppConfig) *int) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if n, err := strconv.Atoi(v); err == nil {
			*dst(c) = n
		}
	}
}

func int64Env(dst func(*AppConfig) *int64) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst(c) = n
		}
	}
}

func durationEnv(dst func(*AppConfig) *time.Duration) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if d, err := time.ParseDuration(v); err == nil {
			*dst(c) = d
		}
	}
}

func stringEnv(dst func(*AppConfig) *string) func(*AppConfig, string) {
	return func(c *AppConfig, v string) { *dst(c) = v }
}

func boolEnv(dst func(*AppConfig) *bool) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		p := dst(c)
		*p = parseBoolEnv(v, *p)
	}
}

// Mode flags (--call, --repl, --serve, --bench) have no entry: the action
// is always chosen on the command line.
var envOverrides = []envOverride{
	{"BENCH_PARALLEL", []string{"bench-parallel"}, intEnv(func(c *AppConfig) *int { return &c.BenchParallel })},
	{"MAX_BODY", []string{"max-body"}, int64Env(func(c *AppConfig) *int64 { return &c.MaxBodyBytes })},
	{"TIMEOUT", []string{"timeout"}, durationEnv(func(c *AppConfig) *time.Duration { return &c.Timeout })},
	{"SHUTDOWN_TIMEOUT", []string{"shutdown-timeout"}, durationEnv(func(c *AppConfig) *time.Duration { return &c.ShutdownTimeout })},
	{"BENCH_TIME", []string{"bench-time"}, durationEnv(func(c *AppConfig) *time.Duration { return &c.BenchTime })},
	{"ADDR", []string{"addr"}, stringEnv(func(c *AppConfig) *string { return &c.Addr })},
	{"BENCH_FILTER", []string{"bench-filter"}, stringEnv(func(c *AppConfig) *string { return &c.BenchFilter })},
	{"LOG_LEVEL", []string{"log-level"}, stringEnv(func(c *AppConfig) *string { return &c.LogLevel })},
	{"ALLOWED_ORIGINS", []string{"allowed-origins"}, func(c *AppConfig, v string) { c.AllowedOrigins = splitList(v) }},
	{"QUIET", []string{"quiet", "q"}, boolEnv(func(c *AppConfig) *bool { return &c.Quiet })},
	{"VERBOSE", []string{"verbose", "v"}, boolEnv(func(c *AppConfig) *bool { return &c.Verbose })},
	{"NO_COLOR", []string{"no-color"}, boolEnv(func(c *AppConfig) *bool { return &c.NoColor })},
	{"JSON", []string{"json"}, boolEnv(func(c *AppConfig) *bool { return &c.JSON })},
	{"TUI", []string{"tui"}, boolEnv(func(c *AppConfig) *bool { return &c.TUI })},
}

// parseBoolEnv accepts true/1/yes and false/0/no in any case. Anything
// else yields defaultVal.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return defaultVal
}

// applyEnvOverrides copies NUMKIT_* values into config for every flag the
// user did not pass explicitly.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.key); val != "" {
			o.apply(config, val)
		}
	}
}
