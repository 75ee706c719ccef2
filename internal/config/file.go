package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/numkit/internal/errors"
)

// FileConfig is the YAML configuration file layout. Absent keys leave the
// corresponding setting untouched.
//
//	server:
//	  addr: ":9090"
//	  shutdown_timeout: 5s
//	  allowed_origins: ["https://example.com"]
//	  max_body_bytes: 65536
//	bench:
//	  filter: sort
//	  parallel: 2
//	  time: 500ms
//	  tui: true
//	timeout: 10s
//	log_level: debug
//	no_color: true
type FileConfig struct {
	Timeout  *time.Duration `yaml:"timeout"`
	LogLevel *string        `yaml:"log_level"`
	NoColor  *bool          `yaml:"no_color"`
	JSON     *bool          `yaml:"json"`
	Server   struct {
		Addr            *string        `yaml:"addr"`
		ShutdownTimeout *time.Duration `yaml:"shutdown_timeout"`
		AllowedOrigins  []string       `yaml:"allowed_origins"`
		MaxBodyBytes    *int64         `yaml:"max_body_bytes"`
	} `yaml:"server"`
	Bench struct {
		Filter   *string        `yaml:"filter"`
		Parallel *int           `yaml:"parallel"`
		Time     *time.Duration `yaml:"time"`
		TUI      *bool          `yaml:"tui"`
	} `yaml:"bench"`
}

// LoadFile reads and parses a YAML configuration file. Unknown keys are
// rejected so typos surface as configuration errors.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	f, err := os.Open(path)
	if err != nil {
		return fc, apperrors.NewConfigError("failed to read config %s: %v", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		if errors.Is(err, io.EOF) {
			return fc, nil
		}
		return fc, apperrors.NewConfigError("failed to parse config %s: %v", path, err)
	}
	return fc, nil
}

// applyTo copies the file settings into cfg for every flag that was not set
// explicitly on the command line.
func (fc FileConfig) applyTo(cfg *AppConfig, fs *flag.FlagSet) {
	set := func(flagNames ...string) bool { return !isFlagSetAny(fs, flagNames...) }

	if fc.Timeout != nil && set("timeout") {
		cfg.Timeout = *fc.Timeout
	}
	if fc.LogLevel != nil && set("log-level") {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.NoColor != nil && set("no-color") {
		cfg.NoColor = *fc.NoColor
	}
	if fc.JSON != nil && set("json") {
		cfg.JSON = *fc.JSON
	}
	if fc.Server.Addr != nil && set("addr") {
		cfg.Addr = *fc.Server.Addr
	}
	if fc.Server.ShutdownTimeout != nil && set("shutdown-timeout") {
		cfg.ShutdownTimeout = *fc.Server.ShutdownTimeout
	}
	if fc.Server.AllowedOrigins != nil && set("allowed-origins") {
		cfg.AllowedOrigins = fc.Server.AllowedOrigins
	}
	if fc.Server.MaxBodyBytes != nil && set("max-body") {
		cfg.MaxBodyBytes = *fc.Server.MaxBodyBytes
	}
	if fc.Bench.Filter != nil && set("bench-filter") {
		cfg.BenchFilter = *fc.Bench.Filter
	}
	if fc.Bench.Parallel != nil && set("bench-parallel") {
		cfg.BenchParallel = *fc.Bench.Parallel
	}
	if fc.Bench.Time != nil && set("bench-time") {
		cfg.BenchTime = *fc.Bench.Time
	}
	if fc.Bench.TUI != nil && set("tui") {
		cfg.TUI = *fc.Bench.TUI
	}
}

// String renders the file configuration back to YAML, for diagnostics.
func (fc FileConfig) String() string {
	out, err := yaml.Marshal(fc)
	if err != nil {
		return fmt.Sprintf("<invalid config: %v>", err)
	}
	return string(out)
}
