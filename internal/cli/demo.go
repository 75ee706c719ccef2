package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/agbru/numkit/internal/binding"
	"github.com/agbru/numkit/internal/ui"
)

// RunDemo walks through every bound symbol once: add_numbers(10, 32),
// fibonacci(15), sort_numbers([5, 2, 8, 1, 9]) and a Calculator created at
// 10 then incremented by 5. Calls go through the binding module, so the
// demo exercises the same path as the server and the REPL.
func RunDemo(ctx context.Context, m *binding.Module, out io.Writer) error {
	fmt.Fprintf(out, "%s\n\n", ui.Title("=== numkit demo ==="))

	steps := []struct {
		label    string
		function string
		args     []any
	}{
		{"1. Add numbers", "add_numbers", []any{uint64(10), uint64(32)}},
		{"2. Fibonacci(15)", "fibonacci", []any{uint64(15)}},
		{"3. Sort numbers", "sort_numbers", []any{[]int32{5, 2, 8, 1, 9}}},
	}
	for _, s := range steps {
		res, err := m.Call(ctx, s.function, s.args...)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s%s%s\n", s.label, ui.ColorGreen(), FormatValue(res), ui.ColorReset())
	}
	fmt.Fprintln(out)

	h, err := m.New(ctx, binding.CalculatorClass, uint64(10))
	if err != nil {
		return err
	}
	defer func() { _ = m.Release(h) }()

	fmt.Fprintln(out, "4. Calculator demo:")
	initial, err := m.Repr(h)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "   Initial: %s%s%s\n", ui.ColorCyan(), initial, ui.ColorReset())

	if _, err := m.Invoke(ctx, h, "add", uint64(5)); err != nil {
		return err
	}
	after, err := m.Repr(h)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "   After add(5): %s%s%s\n", ui.ColorCyan(), after, ui.ColorReset())

	value, err := m.Invoke(ctx, h, "get_value")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "   Value: %s%s%s\n", ui.ColorGreen(), FormatValue(value), ui.ColorReset())
	return nil
}
