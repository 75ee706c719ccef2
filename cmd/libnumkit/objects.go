package main

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/agbru/numkit/internal/binding"
)

// Status codes returned across the C boundary.
const (
	statusOK             = 0
	statusUnknownHandle  = -1
	statusInvalidArgs    = -2
	statusInternalFailed = -3
)

// maxSortLen bounds the element count accepted by numkit_sort_numbers so
// the int32 view of the caller's buffer stays addressable.
const maxSortLen = min(math.MaxInt32, math.MaxInt/4)

// sortLen converts a C element count to a slice length, rejecting counts
// that unsafe.Slice cannot represent.
func sortLen(n uint64) (int, bool) {
	if n > maxSortLen {
		return 0, false
	}
	return int(n), true
}

// objectTable maps the integer ids handed to C callers onto binding
// handles. Id 0 is never issued so C code can use it as "no object".
type objectTable struct {
	module *binding.Module

	mu     sync.Mutex
	nextID uint64
	ids    map[uint64]binding.Handle
}

func newObjectTable(m *binding.Module) *objectTable {
	return &objectTable{module: m, ids: make(map[uint64]binding.Handle)}
}

func (t *objectTable) create(initial uint64) (uint64, int) {
	h, err := t.module.New(context.Background(), binding.CalculatorClass, initial)
	if err != nil {
		return 0, statusFor(err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.ids[t.nextID] = h
	return t.nextID, statusOK
}

func (t *objectTable) handle(id uint64) (binding.Handle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.ids[id]
	return h, ok
}

// invokeUint calls a method returning uint64 on the object id.
func (t *objectTable) invokeUint(id uint64, method string, args ...any) (uint64, int) {
	h, ok := t.handle(id)
	if !ok {
		return 0, statusUnknownHandle
	}
	res, err := t.module.Invoke(context.Background(), h, method, args...)
	if err != nil {
		return 0, statusFor(err)
	}
	v, ok := res.(uint64)
	if !ok {
		return 0, statusInternalFailed
	}
	return v, statusOK
}

func (t *objectTable) repr(id uint64) (string, int) {
	h, ok := t.handle(id)
	if !ok {
		return "", statusUnknownHandle
	}
	s, err := t.module.Repr(h)
	if err != nil {
		return "", statusFor(err)
	}
	return s, statusOK
}

func (t *objectTable) free(id uint64) int {
	t.mu.Lock()
	h, ok := t.ids[id]
	delete(t.ids, id)
	t.mu.Unlock()
	if !ok {
		return statusUnknownHandle
	}
	if err := t.module.Release(h); err != nil {
		return statusFor(err)
	}
	return statusOK
}

func (t *objectTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ids)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, binding.ErrUnknownHandle):
		return statusUnknownHandle
	case errors.Is(err, binding.ErrArity):
		return statusInvalidArgs
	default:
		return statusInternalFailed
	}
}
