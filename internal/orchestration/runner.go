package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/numkit/internal/config"
	apperrors "github.com/agbru/numkit/internal/errors"
	"github.com/agbru/numkit/internal/metrics"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking benchmark
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// maxIterations bounds a single round so a trivially cheap workload cannot
// overflow the iteration count.
const maxIterations = 1_000_000_000

// Options controls a suite run.
type Options struct {
	// BenchTime is the target duration of the final round of each case.
	BenchTime time.Duration
	// Parallel is how many cases are measured at once.
	Parallel int
}

// OptionsFromConfig extracts the runner options from the application config.
func OptionsFromConfig(cfg config.AppConfig) Options {
	return Options{BenchTime: cfg.BenchTime, Parallel: cfg.BenchParallel}
}

// ExecuteBenchmarks measures every case, at most opts.Parallel at a time,
// and returns one result per case in input order. Cancelling ctx stops the
// remaining cases; their results carry the context error.
func ExecuteBenchmarks(ctx context.Context, cases []Case, opts Options, progressReporter ProgressReporter, out io.Writer) []BenchmarkResult {
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}
	if opts.BenchTime <= 0 {
		opts.BenchTime = config.DefaultBenchTime
	}

	results := make([]BenchmarkResult, len(cases))
	progressChan := make(chan ProgressUpdate, len(cases)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(cases), out)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallel)
	acct := &allocAccountant{collector: metrics.NewMemoryCollector()}

	for i, c := range cases {
		idx, bc := i, c
		g.Go(func() error {
			report := func(v float64) {
				select {
				case progressChan <- ProgressUpdate{Index: idx, Value: v}:
				default:
				}
			}
			results[idx] = measure(gctx, bc, opts.BenchTime, acct, report)
			// Completion is always delivered so the display reaches 100%.
			progressChan <- ProgressUpdate{Index: idx, Value: 1}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// allocAccountant serializes allocation measurement. runtime memory
// statistics cover the whole process, so a counting round holds the write
// lock while every timing round holds the read lock: no other case runs
// while allocations are being attributed.
type allocAccountant struct {
	mu        sync.RWMutex
	collector *metrics.MemoryCollector
}

// timed runs one timing round of c.
func (a *allocAccountant) timed(c Case, n int) time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	start := time.Now()
	c.Run(n)
	return time.Since(start)
}

// count runs c alone for n operations and returns the allocation delta.
func (a *allocAccountant) count(c Case, n int) metrics.AllocDelta {
	a.mu.Lock()
	defer a.mu.Unlock()
	before := a.collector.Snapshot()
	c.Run(n)
	return a.collector.Snapshot().Sub(before)
}

// measure times c the way testing.B does: grow the iteration count until a
// round lasts at least target, then report that round. Allocations come
// from a separate exclusive round of a tenth of the final count.
func measure(ctx context.Context, c Case, target time.Duration, acct *allocAccountant, report func(float64)) BenchmarkResult {
	res := BenchmarkResult{Name: c.Name}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if c.Check != nil {
		if err := c.Check(); err != nil {
			res.Err = fmt.Errorf("check failed: %w", err)
			return res
		}
	}

	n := 1
	for {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		elapsed := acct.timed(c, n)

		res.Iterations = n
		res.Elapsed = elapsed
		res.NsPerOp = float64(elapsed.Nanoseconds()) / float64(n)

		report(min(1, float64(elapsed)/float64(target)))
		if elapsed >= target || n >= maxIterations {
			countN := max(1, n/10)
			res.BytesPerOp, res.AllocsPerOp = acct.count(c, countN).PerOp(countN)
			return res
		}
		n = predictN(n, elapsed, target)
	}
}

// predictN estimates the iteration count needed to fill target, overshooting
// by 20% and growing at most 100x per round.
func predictN(n int, elapsed, target time.Duration) int {
	prev := int64(n)
	var next int64
	if elapsed <= 0 {
		next = prev * 100
	} else {
		next = int64(float64(target) * float64(prev) / float64(elapsed) * 1.2)
	}
	next = min(next, prev*100)
	next = max(next, prev+1)
	return int(min(next, maxIterations))
}

// AnalyzeResults sorts results fastest first (failures last), presents the
// comparison table and returns the exit code for the run.
func AnalyzeResults(results []BenchmarkResult, presenter ResultPresenter, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].NsPerOp < results[j].NsPerOp
	})

	var firstError error
	successCount := 0
	for _, r := range results {
		if r.Err != nil {
			if firstError == nil {
				firstError = r.Err
			}
			continue
		}
		successCount++
	}

	presenter.PresentComparisonTable(results, out)

	switch {
	case len(results) == 0:
		fmt.Fprintf(out, "\nNo benchmark matched the filter.\n")
		return apperrors.ExitErrorConfig
	case firstError != nil:
		fmt.Fprintf(out, "\nGlobal Status: Failure. %d of %d benchmarks failed.\n", len(results)-successCount, len(results))
		return presenter.HandleError(firstError, 0, out)
	default:
		fmt.Fprintf(out, "\nGlobal Status: Success. %d benchmarks completed.\n", successCount)
		return apperrors.ExitSuccess
	}
}
