package numeric

import "math/bits"

// MaxExactFibonacciIndex is the largest n for which F(n) fits in a uint64.
// Fibonacci returns F(n) mod 2^64 for larger indices.
const MaxExactFibonacciIndex = 93

// Fibonacci returns the n-th Fibonacci number with F(0) = 0 and F(1) = 1.
//
// It uses the fast doubling identities
//
//	F(2k)   = F(k) * (2*F(k+1) - F(k))
//	F(2k+1) = F(k+1)² + F(k)²
//
// evaluated in uint64 arithmetic. Both are polynomial identities, so they
// hold modulo 2^64 and the result for n > MaxExactFibonacciIndex is the same
// wrapped value the recursive definition would produce.
func Fibonacci(n uint64) uint64 {
	if n < 2 {
		return n
	}

	var fk, fk1 uint64 = 0, 1 // F(k), F(k+1)
	for i := bits.Len64(n) - 1; i >= 0; i-- {
		f2k := fk * (2*fk1 - fk)
		f2k1 := fk1*fk1 + fk*fk
		fk, fk1 = f2k, f2k1

		if (n>>uint(i))&1 == 1 {
			fk, fk1 = fk1, fk+fk1
		}
	}
	return fk
}

// FibonacciRecursive computes F(n) by direct recursion on the definition.
// It takes exponential time and exists as a benchmark workload and a test
// oracle for Fibonacci.
func FibonacciRecursive(n uint64) uint64 {
	switch n {
	case 0:
		return 0
	case 1:
		return 1
	default:
		return FibonacciRecursive(n-1) + FibonacciRecursive(n-2)
	}
}
