package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "github.com/agbru/numkit/internal/errors"
	"github.com/agbru/numkit/internal/format"
	"github.com/agbru/numkit/internal/metrics"
	"github.com/agbru/numkit/internal/orchestration"
	"github.com/agbru/numkit/internal/sysmon"
	"github.com/agbru/numkit/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for running benchmarks.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numBenchmarks int, out io.Writer) {
	DisplayProgress(wg, progressChan, numBenchmarks, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for terminal
// output.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentComparisonTable renders the results as a bordered table, fastest
// first, with the per-operation time highlighted.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.BenchmarkResult, out io.Writer) {
	fmt.Fprintf(out, "\n%s\n", ui.Title("--- Benchmark Summary ---"))
	if len(results) == 0 {
		return
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		timePerOp, bytesPerOp, allocsPerOp := format.FormatNsPerOp(r.NsPerOp), format.FormatBytes(r.BytesPerOp), strconv.FormatUint(r.AllocsPerOp, 10)
		if r.Err != nil {
			status = "failed: " + r.Err.Error()
			timePerOp, bytesPerOp, allocsPerOp = "-", "-", "-"
		}
		rows = append(rows, []string{
			r.Name,
			format.FormatNumberString(strconv.Itoa(r.Iterations)),
			timePerOp,
			bytesPerOp,
			allocsPerOp,
			status,
		})
	}
	fmt.Fprintln(out, ui.Table([]string{"Benchmark", "Iterations", "Time/op", "Mem/op", "Allocs/op", "Status"}, rows, 2))
}

// HandleError reports err and returns the matching exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleError(err, duration, out, ui.ErrorColors{})
}

// DisplayHost prints the environment benchmark numbers were taken on.
func DisplayHost(out io.Writer, host sysmon.Host, load sysmon.Stats, mem metrics.MemorySnapshot) {
	fmt.Fprintf(out, "%s\n", ui.Title("--- Environment ---"))
	fmt.Fprintf(out, "Go %s%s%s on %s/%s, %s%d%s logical processors.\n",
		ui.ColorCyan(), host.GoVersion, ui.ColorReset(), host.GOOS, host.GOARCH,
		ui.ColorCyan(), host.NumCPU, ui.ColorReset())
	if host.CPUModel != "" {
		fmt.Fprintf(out, "CPU: %s\n", host.CPUModel)
	}
	if len(host.Features) > 0 {
		fmt.Fprintf(out, "CPU features: %s\n", strings.Join(host.Features, " "))
	}
	if host.TotalMemory > 0 {
		fmt.Fprintf(out, "Memory: %s total, %.1f%% used; system CPU load %.1f%%.\n",
			format.FormatBytes(host.TotalMemory), load.MemPercent, load.CPUPercent)
	}
	fmt.Fprintf(out, "Process heap: %s in use, %d GC cycles so far.\n",
		format.FormatBytes(mem.HeapAlloc), mem.NumGC)
}
