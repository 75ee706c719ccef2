package orchestration

import (
	"time"

	"github.com/agbru/numkit/internal/format"
)

// ProgressAggregator folds per-benchmark updates into an overall progress
// value and an ETA.
type ProgressAggregator struct {
	state         *format.ProgressWithETA
	numBenchmarks int
}

// NewProgressAggregator creates a new aggregator for the given number
// of benchmarks. Returns nil if numBenchmarks <= 0.
func NewProgressAggregator(numBenchmarks int) *ProgressAggregator {
	if numBenchmarks <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:         format.NewProgressWithETA(numBenchmarks),
		numBenchmarks: numBenchmarks,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	Index           int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.Index, update.Value)
	return AggregatedProgress{
		Index:           update.Index,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average progress without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumBenchmarks returns the number of benchmarks being tracked.
func (a *ProgressAggregator) NumBenchmarks() int {
	return a.numBenchmarks
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
