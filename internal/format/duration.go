// Package format renders durations, byte sizes, numbers and progress bars
// for terminal output.
package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatNsPerOp renders a per-operation cost, picking ns, µs or ms so the
// integer part stays short.
func FormatNsPerOp(ns float64) string {
	switch {
	case ns < 0:
		return "n/a"
	case ns < 1_000:
		return fmt.Sprintf("%.2f ns/op", ns)
	case ns < 1_000_000:
		return fmt.Sprintf("%.2f µs/op", ns/1_000)
	default:
		return fmt.Sprintf("%.2f ms/op", ns/1_000_000)
	}
}

// FormatBytes renders a byte count with binary units.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
