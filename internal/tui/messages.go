package tui

import (
	"time"

	"github.com/agbru/numkit/internal/metrics"
	"github.com/agbru/numkit/internal/orchestration"
	"github.com/agbru/numkit/internal/sysmon"
)

// ProgressMsg carries one aggregated progress update.
type ProgressMsg struct {
	Index           int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg signals that the progress channel was closed.
type ProgressDoneMsg struct{}

// ResultsMsg carries the sorted results of a finished suite run.
type ResultsMsg struct {
	Results []orchestration.BenchmarkResult
}

// ErrorMsg reports the first failing benchmark.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// BenchDoneMsg is sent when the suite run of a given generation returns.
type BenchDoneMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the run context of a generation ends.
type ContextCancelledMsg struct {
	Generation uint64
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// SampleMsg carries host load and process memory readings.
type SampleMsg struct {
	Sys sysmon.Stats
	Mem metrics.MemorySnapshot
}
