package orchestration

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/agbru/numkit/internal/binding"
	"github.com/agbru/numkit/internal/numeric"
)

// Case is one benchmark workload.
type Case struct {
	Name string
	// Check runs the workload once and verifies its output. It runs before
	// timing starts; a failing check skips the measurement.
	Check func() error
	// Run executes the workload n times.
	Run func(n int)
}

// sink keeps the compiler from discarding benchmark results. Workloads fold
// their outputs locally and publish once per round, so concurrent cases do
// not race.
var sink atomic.Uint64

// Inputs are variables so the calls are not folded into constants.
var (
	addA, addB uint64 = 100, 200
	fibSmall   uint64 = 10
	fibLarge   uint64 = 20
)

const sortSize = 1000

func reversed(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(n - i)
	}
	return out
}

func ascending(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(i + 1)
	}
	return out
}

func expectUint(name string, got, want uint64) error {
	if got != want {
		return fmt.Errorf("%s: got %d, want %d", name, got, want)
	}
	return nil
}

func expectSorted(name string, got []int32, wantLen int) error {
	if len(got) != wantLen {
		return fmt.Errorf("%s: got %d elements, want %d", name, len(got), wantLen)
	}
	if !slices.IsSorted(got) {
		return fmt.Errorf("%s: output not sorted", name)
	}
	return nil
}

func accumulate(count uint64) uint64 {
	acc := numeric.NewAccumulator(0)
	for i := range count {
		acc.Add(i)
	}
	return acc.Value()
}

// DefaultSuite returns the standard benchmark cases. When m is non-nil a
// case measuring a call through the binding layer is included.
func DefaultSuite(m *binding.Module) []Case {
	small := []int32{5, 2, 8, 1, 9, 3, 7, 4, 6}
	cases := []Case{
		{
			Name:  "add_numbers",
			Check: func() error { return expectUint("add_numbers", numeric.Add(100, 200), 300) },
			Run: func(n int) {
				var s uint64
				for range n {
					s += numeric.Add(addA, addB)
				}
				sink.Store(s)
			},
		},
		{
			Name:  "fibonacci 10",
			Check: func() error { return expectUint("fibonacci 10", numeric.FibonacciRecursive(10), 55) },
			Run: func(n int) {
				var s uint64
				for range n {
					s += numeric.FibonacciRecursive(fibSmall)
				}
				sink.Store(s)
			},
		},
		{
			Name:  "fibonacci 20",
			Check: func() error { return expectUint("fibonacci 20", numeric.FibonacciRecursive(20), 6765) },
			Run: func(n int) {
				var s uint64
				for range n {
					s += numeric.FibonacciRecursive(fibLarge)
				}
				sink.Store(s)
			},
		},
		{
			Name:  "fibonacci 20 (fast doubling)",
			Check: func() error { return expectUint("fibonacci 20 (fast doubling)", numeric.Fibonacci(20), 6765) },
			Run: func(n int) {
				var s uint64
				for range n {
					s += numeric.Fibonacci(fibLarge)
				}
				sink.Store(s)
			},
		},
		{
			Name: "sort small list",
			Check: func() error {
				return expectSorted("sort small list", numeric.SortNumbers(slices.Clone(small)), len(small))
			},
			Run: func(n int) {
				var s uint64
				for range n {
					s += uint64(numeric.SortNumbers(slices.Clone(small))[0])
				}
				sink.Store(s)
			},
		},
		{
			Name:  "sort 1000 numbers",
			Check: func() error { return expectSorted("sort 1000 numbers", numeric.SortNumbers(reversed(sortSize)), sortSize) },
			Run: func(n int) {
				var s uint64
				for range n {
					s += uint64(numeric.SortNumbers(reversed(sortSize))[0])
				}
				sink.Store(s)
			},
		},
		{
			Name: "sort already sorted 1000 numbers",
			Check: func() error {
				return expectSorted("sort already sorted 1000 numbers", numeric.SortNumbers(ascending(sortSize)), sortSize)
			},
			Run: func(n int) {
				var s uint64
				for range n {
					s += uint64(numeric.SortNumbers(ascending(sortSize))[0])
				}
				sink.Store(s)
			},
		},
		{
			Name:  "calculator operations",
			Check: func() error { return expectUint("calculator operations", accumulate(100), 4950) },
			Run: func(n int) {
				var s uint64
				for range n {
					s += accumulate(100)
				}
				sink.Store(s)
			},
		},
		{
			Name: "calculator single add",
			Check: func() error {
				return expectUint("calculator single add", numeric.NewAccumulator(10).Add(5), 15)
			},
			Run: func(n int) {
				acc := numeric.NewAccumulator(10)
				for range n {
					acc.Add(5)
				}
				sink.Store(acc.Value())
			},
		},
	}

	if m != nil {
		call := func() (any, error) { return m.Call(context.Background(), "add_numbers", addA, addB) }
		cases = append(cases, Case{
			Name: "binding add_numbers",
			Check: func() error {
				res, err := call()
				if err != nil {
					return fmt.Errorf("binding add_numbers: %w", err)
				}
				v, _ := res.(uint64)
				return expectUint("binding add_numbers", v, 300)
			},
			Run: func(n int) {
				var s uint64
				for range n {
					if res, err := call(); err == nil {
						v, _ := res.(uint64)
						s += v
					}
				}
				sink.Store(s)
			},
		})
	}
	return cases
}

// SelectCases keeps the cases whose name contains filter, case-insensitively.
// An empty filter keeps everything.
func SelectCases(cases []Case, filter string) []Case {
	if filter == "" {
		return cases
	}
	filter = strings.ToLower(filter)
	var out []Case
	for _, c := range cases {
		if strings.Contains(strings.ToLower(c.Name), filter) {
			out = append(out, c)
		}
	}
	return out
}
