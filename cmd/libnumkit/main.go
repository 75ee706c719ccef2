// Command libnumkit builds the numeric library as a C shared library:
//
//	go build -buildmode=c-shared -o libnumkit.so ./cmd/libnumkit
//
// Functions taking an object id return 0 on success, -1 for an unknown id,
// -2 for rejected arguments and -3 for any other failure. Strings returned
// by numkit_calculator_repr must be released with numkit_string_free.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/agbru/numkit/internal/binding"
	"github.com/agbru/numkit/internal/numeric"
)

var objects = newObjectTable(binding.NewDefaultModule())

//export numkit_add
func numkit_add(a, b C.uint64_t) C.uint64_t {
	return C.uint64_t(numeric.Add(uint64(a), uint64(b)))
}

//export numkit_fibonacci
func numkit_fibonacci(n C.uint64_t) C.uint64_t {
	return C.uint64_t(numeric.Fibonacci(uint64(n)))
}

// numkit_sort_numbers sorts the n values at ptr in place.
//
//export numkit_sort_numbers
func numkit_sort_numbers(ptr *C.int32_t, n C.size_t) C.int {
	if n == 0 {
		return statusOK
	}
	length, ok := sortLen(uint64(n))
	if ptr == nil || !ok {
		return statusInvalidArgs
	}
	numeric.SortNumbers(unsafe.Slice((*int32)(unsafe.Pointer(ptr)), length))
	return statusOK
}

// numkit_calculator_new returns the id of a new calculator, or 0 on failure.
//
//export numkit_calculator_new
func numkit_calculator_new(initial C.uint64_t) C.uint64_t {
	id, _ := objects.create(uint64(initial))
	return C.uint64_t(id)
}

//export numkit_calculator_add
func numkit_calculator_add(id, other C.uint64_t, out *C.uint64_t) C.int {
	v, status := objects.invokeUint(uint64(id), "add", uint64(other))
	if status == statusOK && out != nil {
		*out = C.uint64_t(v)
	}
	return C.int(status)
}

//export numkit_calculator_get_value
func numkit_calculator_get_value(id C.uint64_t, out *C.uint64_t) C.int {
	if out == nil {
		return statusInvalidArgs
	}
	v, status := objects.invokeUint(uint64(id), "get_value")
	if status == statusOK {
		*out = C.uint64_t(v)
	}
	return C.int(status)
}

//export numkit_calculator_repr
func numkit_calculator_repr(id C.uint64_t) *C.char {
	s, status := objects.repr(uint64(id))
	if status != statusOK {
		return nil
	}
	return C.CString(s)
}

//export numkit_calculator_free
func numkit_calculator_free(id C.uint64_t) C.int {
	return C.int(objects.free(uint64(id)))
}

//export numkit_string_free
func numkit_string_free(s *C.char) {
	C.free(unsafe.Pointer(s))
}

func main() {}
