package cli

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/numkit/internal/cli/mocks"
	"github.com/agbru/numkit/internal/orchestration"
)

// withSpinner swaps newSpinner for the duration of a test.
func withSpinner(t *testing.T, s Spinner) {
	t.Helper()
	original := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return s }
	t.Cleanup(func() { newSpinner = original })
}

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))
	rs := &realSpinner{s}

	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
	if s.Suffix != " test" {
		t.Errorf("Suffix = %q, want %q", s.Suffix, " test")
	}
}

func TestDisplayProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockS := mocks.NewMockSpinner(ctrl)
	var (
		mu       sync.Mutex
		suffixes []string
	)
	gomock.InOrder(
		mockS.EXPECT().UpdateSuffix(gomock.Any()).Do(func(s string) {
			mu.Lock()
			suffixes = append(suffixes, s)
			mu.Unlock()
		}),
		mockS.EXPECT().Start(),
	)
	mockS.EXPECT().UpdateSuffix(gomock.Any()).Do(func(s string) {
		mu.Lock()
		suffixes = append(suffixes, s)
		mu.Unlock()
	}).AnyTimes()
	mockS.EXPECT().Stop()
	withSpinner(t, mockS)

	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan orchestration.ProgressUpdate)
	var out bytes.Buffer

	go func() {
		progressChan <- orchestration.ProgressUpdate{Index: 0, Value: 0.5}
		progressChan <- orchestration.ProgressUpdate{Index: 1, Value: 1}
		close(progressChan)
	}()

	DisplayProgress(&wg, progressChan, 2, &out)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(suffixes) < 3 {
		t.Fatalf("got %d suffix updates, want at least 3", len(suffixes))
	}
	if !strings.Contains(suffixes[0], "2 benchmarks") {
		t.Errorf("first suffix = %q, want benchmark count", suffixes[0])
	}
	if last := suffixes[len(suffixes)-1]; !strings.Contains(last, "75.0%") {
		t.Errorf("last suffix = %q, want 75.0%%", last)
	}
	if !strings.Contains(out.String(), "2 benchmarks measured.") {
		t.Errorf("output = %q, want completion line", out.String())
	}
}

func TestDisplayProgress_ZeroBenchmarks(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No expectations: the spinner must not be touched.
	withSpinner(t, mocks.NewMockSpinner(ctrl))

	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan orchestration.ProgressUpdate, 1)
	progressChan <- orchestration.ProgressUpdate{}
	close(progressChan)

	DisplayProgress(&wg, progressChan, 0, io.Discard)
	wg.Wait()
}

func TestCLIProgressReporter_WithRunner(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockS := mocks.NewMockSpinner(ctrl)
	mockS.EXPECT().Start()
	mockS.EXPECT().Stop()
	mockS.EXPECT().UpdateSuffix(gomock.Any()).AnyTimes()
	withSpinner(t, mockS)

	noColor(t)

	var out bytes.Buffer
	cases := []orchestration.Case{{Name: "noop", Run: func(int) {}}}
	results := orchestration.ExecuteBenchmarks(t.Context(), cases, orchestration.Options{BenchTime: time.Millisecond, Parallel: 1}, CLIProgressReporter{}, &out)

	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("results = %+v", results)
	}
	if !strings.Contains(out.String(), "1 benchmark measured.") {
		t.Errorf("output = %q", out.String())
	}
}
