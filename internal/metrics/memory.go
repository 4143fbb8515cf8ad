package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	TotalAlloc   uint64 // cumulative bytes allocated
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
}

// MemoryUsage is the difference between two snapshots taken around a render.
type MemoryUsage struct {
	Allocated uint64 // bytes allocated in between
	PeakHeap  uint64 // larger of the two heap readings
	GCCycles  uint32
	GCPauseNs uint64
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}

// Since reports the memory activity between before and s.
func (s MemorySnapshot) Since(before MemorySnapshot) MemoryUsage {
	return MemoryUsage{
		Allocated: s.TotalAlloc - before.TotalAlloc,
		PeakHeap:  max(s.HeapAlloc, before.HeapAlloc),
		GCCycles:  s.NumGC - before.NumGC,
		GCPauseNs: s.PauseTotalNs - before.PauseTotalNs,
	}
}
