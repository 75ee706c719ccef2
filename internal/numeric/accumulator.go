package numeric

import "strconv"

// Accumulator holds a running uint64 total.
//
// The zero value is an accumulator starting at 0. Value always equals the
// initial value plus every increment applied so far, modulo 2^64.
type Accumulator struct {
	value uint64
}

// NewAccumulator returns an accumulator starting at initial.
func NewAccumulator(initial uint64) *Accumulator {
	return &Accumulator{value: initial}
}

// Add increments the total by other, wrapping on overflow, and returns the
// new total.
func (a *Accumulator) Add(other uint64) uint64 {
	a.value = Add(a.value, other)
	return a.value
}

// Value returns the current total.
func (a *Accumulator) Value() uint64 {
	return a.value
}

// String renders the accumulator as "Calculator(value=<N>)".
func (a *Accumulator) String() string {
	return "Calculator(value=" + strconv.FormatUint(a.value, 10) + ")"
}
