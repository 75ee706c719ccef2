package orchestration

import (
	"io"
	"sync"
	"time"
)

// ProgressUpdate reports how far one benchmark has progressed towards its
// target duration.
type ProgressUpdate struct {
	// Index identifies the benchmark within the running suite.
	Index int
	// Value is the completion fraction (0.0 to 1.0).
	Value float64
}

// BenchmarkResult is the outcome of measuring one Case.
type BenchmarkResult struct {
	// Name is the case name, e.g. "fibonacci 20".
	Name string
	// Iterations is the operation count of the final, reported round.
	Iterations int
	// Elapsed is the wall time of the final round.
	Elapsed time.Duration
	// NsPerOp is Elapsed divided by Iterations.
	NsPerOp float64
	// BytesPerOp and AllocsPerOp are heap allocation averages, counted in a
	// round during which no other benchmark runs.
	BytesPerOp  uint64
	AllocsPerOp uint64
	// Err is set when the case failed its check or was interrupted.
	Err error
}

// ProgressReporter displays benchmark progress. DisplayProgress runs in its
// own goroutine until progressChan is closed, then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numBenchmarks int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numBenchmarks int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numBenchmarks int, out io.Writer) {
	f(wg, progressChan, numBenchmarks, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Used in quiet and JSON modes.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders benchmark results.
type ResultPresenter interface {
	// PresentComparisonTable displays every result, fastest first.
	PresentComparisonTable(results []BenchmarkResult, out io.Writer)
	// HandleError reports a failure and returns the exit code.
	HandleError(err error, duration time.Duration, out io.Writer) int
}
