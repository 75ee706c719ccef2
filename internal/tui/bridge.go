package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/numkit/internal/errors"
	"github.com/agbru/numkit/internal/orchestration"
)

// programRef is a shared reference to the tea.Program. bubbletea copies the
// model on every Update, so the runner goroutines hold this pointer instead.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program. It is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// ProgressReporter implements orchestration.ProgressReporter by forwarding
// aggregated updates to the dashboard.
type ProgressReporter struct {
	ref *programRef
}

var _ orchestration.ProgressReporter = (*ProgressReporter)(nil)

// DisplayProgress drains progressChan and sends a ProgressMsg per update.
func (t *ProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numBenchmarks int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numBenchmarks)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			Index:           ap.Index,
			Value:           ap.Value,
			AverageProgress: ap.AverageProgress,
			ETA:             ap.ETA,
		})
	}
	t.ref.Send(ProgressDoneMsg{})
}

// ResultPresenter implements orchestration.ResultPresenter by sending the
// results to the dashboard instead of writing them.
type ResultPresenter struct {
	ref *programRef
}

var _ orchestration.ResultPresenter = (*ResultPresenter)(nil)

// PresentComparisonTable sends the results to the dashboard.
func (t *ResultPresenter) PresentComparisonTable(results []orchestration.BenchmarkResult, _ io.Writer) {
	t.ref.Send(ResultsMsg{Results: results})
}

// HandleError sends err to the dashboard and returns its exit code.
func (t *ResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Err: err, Duration: duration})
	return apperrors.ExitCodeFor(err)
}
