// Package metrics reads runtime memory statistics for the benchmark report
// and for per-operation allocation accounting.
package metrics

import "runtime"

// MemorySnapshot is the subset of runtime.MemStats the benchmark report
// uses. TotalAlloc, Mallocs and NumGC are cumulative.
type MemorySnapshot struct {
	HeapAlloc  uint64
	Sys        uint64
	TotalAlloc uint64
	Mallocs    uint64
	NumGC      uint32
}

// AllocDelta is the allocation activity between two snapshots.
type AllocDelta struct {
	Bytes   uint64
	Mallocs uint64
	NumGC   uint32
}

// PerOp divides the delta by n operations. n <= 0 yields zeroes.
func (d AllocDelta) PerOp(n int) (bytes, allocs uint64) {
	if n <= 0 {
		return 0, 0
	}
	return d.Bytes / uint64(n), d.Mallocs / uint64(n)
}

// Sub returns the allocation activity from prev to s. Cumulative counters
// never decrease, so a prev taken after s yields a zero delta.
func (s MemorySnapshot) Sub(prev MemorySnapshot) AllocDelta {
	var d AllocDelta
	if s.TotalAlloc > prev.TotalAlloc {
		d.Bytes = s.TotalAlloc - prev.TotalAlloc
	}
	if s.Mallocs > prev.Mallocs {
		d.Mallocs = s.Mallocs - prev.Mallocs
	}
	if s.NumGC > prev.NumGC {
		d.NumGC = s.NumGC - prev.NumGC
	}
	return d
}

// MemoryCollector takes MemorySnapshots.
type MemoryCollector struct{}

func NewMemoryCollector() *MemoryCollector { return &MemoryCollector{} }

// Snapshot reads current memory statistics. It stops the world briefly, so
// callers timing hot loops take snapshots outside the timed region.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:  m.HeapAlloc,
		Sys:        m.Sys,
		TotalAlloc: m.TotalAlloc,
		Mallocs:    m.Mallocs,
		NumGC:      m.NumGC,
	}
}
