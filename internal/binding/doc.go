// Package binding exposes the numeric library to dynamically typed hosts.
//
// A Module is a registry of named functions and classes. Hosts call
// functions by name with loosely typed arguments, construct objects that
// are kept in a handle table, and invoke methods on them. All argument
// conversion and error translation happens here; the numeric package itself
// never returns errors.
//
// The default module exposes:
//
//	add_numbers(a, b)      -> uint64
//	fibonacci(n)           -> uint64
//	sort_numbers(numbers)  -> []int32
//	Calculator(initial)    with add(other), get_value(), __repr__()
//
// Objects in the handle table may be reached by several host callers, so
// each one is guarded by its own mutex.
package binding
