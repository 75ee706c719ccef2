package numeric

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAdd(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b uint64
		want uint64
	}{
		{"small values", 2, 3, 5},
		{"zeros", 0, 0, 0},
		{"right identity", 5, 0, 5},
		{"left identity", 0, 5, 5},
		{"hundreds", 100, 200, 300},
		{"thousands", 1000, 2000, 3000},
		{"max plus zero", math.MaxUint64, 0, math.MaxUint64},
		{"wraps at max", math.MaxUint64, 1, 0},
		{"wraps past max", math.MaxUint64, math.MaxUint64, math.MaxUint64 - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Add(tt.a, tt.b); got != tt.want {
				t.Errorf("Add(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFibonacci(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n    uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{5, 5},
		{10, 55},
		{15, 610},
		{20, 6765},
		{50, 12586269025},
		{92, 7540113804746346429},
		{93, 12200160415121876738},
	}

	for _, tt := range tests {
		if got := Fibonacci(tt.n); got != tt.want {
			t.Errorf("Fibonacci(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestFibonacci_Sequence(t *testing.T) {
	t.Parallel()
	want := []uint64{0, 1, 1, 2, 3, 5, 8, 13, 21, 34}
	got := make([]uint64, len(want))
	for i := range got {
		got[i] = Fibonacci(uint64(i))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("first ten Fibonacci numbers mismatch (-want +got):\n%s", diff)
	}
}

func TestFibonacci_MatchesRecursive(t *testing.T) {
	t.Parallel()
	for n := uint64(0); n <= 25; n++ {
		if got, want := Fibonacci(n), FibonacciRecursive(n); got != want {
			t.Errorf("Fibonacci(%d) = %d, recursive gives %d", n, got, want)
		}
	}
}

// TestFibonacci_WrapsLikeIteration checks indices past 93 against the
// plain iterative recurrence, which wraps the same way the recursive
// definition does.
func TestFibonacci_WrapsLikeIteration(t *testing.T) {
	t.Parallel()
	var a, b uint64 = 0, 1
	for n := uint64(0); n <= 2000; n++ {
		if got := Fibonacci(n); got != a {
			t.Fatalf("Fibonacci(%d) = %d, want %d", n, got, a)
		}
		a, b = b, a+b
	}
}

func TestFibonacci_LargeIndexTerminates(t *testing.T) {
	t.Parallel()
	// Only checks that huge indices run in logarithmic time.
	_ = Fibonacci(math.MaxUint64)
	_ = Fibonacci(1 << 63)
}

func TestSortNumbers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input []int32
		want  []int32
	}{
		{"unsorted", []int32{5, 2, 8, 1, 9}, []int32{1, 2, 5, 8, 9}},
		{"with duplicates", []int32{3, 1, 4, 1, 5}, []int32{1, 1, 3, 4, 5}},
		{"already sorted", []int32{1, 2, 3, 4, 5}, []int32{1, 2, 3, 4, 5}},
		{"reverse sorted", []int32{5, 4, 3, 2, 1}, []int32{1, 2, 3, 4, 5}},
		{"empty", []int32{}, []int32{}},
		{"nil", nil, []int32{}},
		{"single element", []int32{42}, []int32{42}},
		{"many duplicates", []int32{3, 3, 1, 2, 2}, []int32{1, 2, 2, 3, 3}},
		{"negatives", []int32{-5, -2, -8, -1}, []int32{-8, -5, -2, -1}},
		{"mixed signs", []int32{-3, 0, 3, -1, 1}, []int32{-3, -1, 0, 1, 3}},
		{"extremes", []int32{math.MaxInt32, math.MinInt32, 0}, []int32{math.MinInt32, 0, math.MaxInt32}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SortNumbers(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SortNumbers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortNumbers_InPlace(t *testing.T) {
	t.Parallel()
	input := []int32{3, 2, 1}
	got := SortNumbers(input)
	if &got[0] != &input[0] {
		t.Error("SortNumbers should reorder the caller's slice in place")
	}
}

func TestSortNumbers_ReverseThousand(t *testing.T) {
	t.Parallel()
	numbers := make([]int32, 0, 1000)
	for i := int32(1000); i > 0; i-- {
		numbers = append(numbers, i)
	}
	got := SortNumbers(numbers)
	if len(got) != 1000 {
		t.Fatalf("len = %d, want 1000", len(got))
	}
	if got[0] != 1 || got[999] != 1000 {
		t.Errorf("bounds = (%d, %d), want (1, 1000)", got[0], got[999])
	}
}

func TestAccumulator(t *testing.T) {
	t.Parallel()

	t.Run("new keeps initial value", func(t *testing.T) {
		t.Parallel()
		if got := NewAccumulator(42).Value(); got != 42 {
			t.Errorf("Value() = %d, want 42", got)
		}
		if got := NewAccumulator(0).Value(); got != 0 {
			t.Errorf("Value() = %d, want 0", got)
		}
	})

	t.Run("add returns and stores the new value", func(t *testing.T) {
		t.Parallel()
		acc := NewAccumulator(10)
		if got := acc.Add(5); got != 15 {
			t.Errorf("Add(5) = %d, want 15", got)
		}
		if got := acc.Value(); got != 15 {
			t.Errorf("Value() = %d, want 15", got)
		}
		if got := acc.Add(10); got != 25 {
			t.Errorf("Add(10) = %d, want 25", got)
		}
		if got := acc.Value(); got != 25 {
			t.Errorf("Value() = %d, want 25", got)
		}
	})

	t.Run("chained adds", func(t *testing.T) {
		t.Parallel()
		acc := NewAccumulator(10)
		acc.Add(5)
		acc.Add(10)
		acc.Add(20)
		if got := acc.Value(); got != 45 {
			t.Errorf("Value() = %d, want 45", got)
		}
	})

	t.Run("adding zero", func(t *testing.T) {
		t.Parallel()
		acc := NewAccumulator(42)
		if got := acc.Add(0); got != 42 {
			t.Errorf("Add(0) = %d, want 42", got)
		}
	})

	t.Run("large numbers", func(t *testing.T) {
		t.Parallel()
		acc := NewAccumulator(1_000_000)
		acc.Add(2_000_000)
		if got := acc.Value(); got != 3_000_000 {
			t.Errorf("Value() = %d, want 3000000", got)
		}
	})

	t.Run("sum of first hundred", func(t *testing.T) {
		t.Parallel()
		acc := NewAccumulator(0)
		for i := uint64(0); i < 100; i++ {
			acc.Add(i)
		}
		if got := acc.Value(); got != 4950 {
			t.Errorf("Value() = %d, want 4950", got)
		}
	})

	t.Run("wraps on overflow", func(t *testing.T) {
		t.Parallel()
		acc := NewAccumulator(math.MaxUint64)
		if got := acc.Add(2); got != 1 {
			t.Errorf("Add(2) = %d, want 1", got)
		}
	})

	t.Run("zero value starts at zero", func(t *testing.T) {
		t.Parallel()
		var acc Accumulator
		if got := acc.Add(7); got != 7 {
			t.Errorf("Add(7) = %d, want 7", got)
		}
	})
}

func TestAccumulator_String(t *testing.T) {
	t.Parallel()
	tests := []struct {
		initial uint64
		want    string
	}{
		{42, "Calculator(value=42)"},
		{0, "Calculator(value=0)"},
		{math.MaxUint64, "Calculator(value=18446744073709551615)"},
	}
	for _, tt := range tests {
		if got := NewAccumulator(tt.initial).String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
