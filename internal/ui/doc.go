// Package ui provides theme and color support for terminal output.
// It defines color schemes, ANSI escape helpers for inline coloring, and
// lipgloss styles for headers and tables, so the CLI and REPL share one
// look and a single place that honors NO_COLOR.
package ui
