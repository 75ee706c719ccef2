// Package numeric is the numeric utility library behind numkit: wrapping
// unsigned addition, Fibonacci numbers, in-place integer sorting and a small
// stateful accumulator.
//
// Every operation is total over its input type. Overflow wraps modulo 2^64
// and is never reported as an error, so the API can be bound to other
// runtimes without an error channel.
//
// Nothing in this package is safe for concurrent mutation. An Accumulator
// belongs to a single owner; callers that share one must synchronize.
package numeric
