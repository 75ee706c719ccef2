// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayCallResult], [DisplayJSON], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatValue].

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/numkit/internal/format"
	"github.com/agbru/numkit/internal/orchestration"
	"github.com/agbru/numkit/internal/sysmon"
	"github.com/agbru/numkit/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// Quiet prints the bare value only.
	Quiet bool
	// Verbose adds timing and thousands-separated numbers.
	Verbose bool
	// JSON prints a machine-readable object instead of text.
	JSON bool
}

// FormatValue renders a binding result the way the REPL and demo show it:
// integers in decimal, lists as "[1, 2, 3]", strings verbatim.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case uint64:
		return strconv.FormatUint(x, 10)
	case string:
		return x
	case []int32:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = strconv.FormatInt(int64(n), 10)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}

// CallResult is the JSON shape of a single call.
type CallResult struct {
	Function string `json:"function"`
	Result   any    `json:"result"`
	Duration string `json:"duration"`
}

// DisplayCallResult prints the outcome of one binding call.
func DisplayCallResult(out io.Writer, function string, result any, duration time.Duration, cfg OutputConfig) error {
	switch {
	case cfg.JSON:
		return DisplayJSON(out, CallResult{Function: function, Result: result, Duration: duration.String()})
	case cfg.Quiet:
		_, err := fmt.Fprintln(out, FormatValue(result))
		return err
	}

	value := FormatValue(result)
	if n, ok := result.(uint64); ok && cfg.Verbose {
		value = format.FormatUint64(n)
	}
	fmt.Fprintf(out, "%s%s%s = %s%s%s\n", ui.ColorCyan(), function, ui.ColorReset(), ui.ColorGreen(), value, ui.ColorReset())
	if cfg.Verbose {
		fmt.Fprintf(out, "%s\n", ui.Dim("computed in "+format.FormatExecutionDuration(duration)))
	}
	return nil
}

// DisplayJSON writes v as indented JSON followed by a newline.
func DisplayJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// BenchReport is the JSON shape of a benchmark run.
type BenchReport struct {
	Host    sysmon.Host       `json:"host"`
	Results []BenchResultJSON `json:"results"`
}

// BenchResultJSON is one benchmark in a BenchReport.
type BenchResultJSON struct {
	Name        string  `json:"name"`
	Iterations  int     `json:"iterations"`
	NsPerOp     float64 `json:"ns_per_op"`
	BytesPerOp  uint64  `json:"bytes_per_op"`
	AllocsPerOp uint64  `json:"allocs_per_op"`
	Error       string  `json:"error,omitempty"`
}

// NewBenchReport converts runner results into their JSON form.
func NewBenchReport(host sysmon.Host, results []orchestration.BenchmarkResult) BenchReport {
	report := BenchReport{Host: host, Results: make([]BenchResultJSON, len(results))}
	for i, r := range results {
		report.Results[i] = BenchResultJSON{
			Name:        r.Name,
			Iterations:  r.Iterations,
			NsPerOp:     r.NsPerOp,
			BytesPerOp:  r.BytesPerOp,
			AllocsPerOp: r.AllocsPerOp,
		}
		if r.Err != nil {
			report.Results[i].Error = r.Err.Error()
		}
	}
	return report
}
