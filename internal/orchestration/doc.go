// Package orchestration runs the benchmark suite concurrently and aggregates
// its results for reporting. It decouples measurement from presentation via
// the ProgressReporter and ResultPresenter interfaces.
package orchestration
