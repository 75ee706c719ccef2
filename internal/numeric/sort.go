package numeric

import "slices"

// SortNumbers sorts numbers in place in non-decreasing order and returns it.
// The sort is unstable; equal values are indistinguishable anyway. A nil
// input yields an empty, non-nil slice.
func SortNumbers(numbers []int32) []int32 {
	if numbers == nil {
		return []int32{}
	}
	slices.Sort(numbers)
	return numbers
}
