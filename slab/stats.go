package slab

import (
	"github.com/borlak/memory-manager/sizeclass"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// ClassStatistics are the running totals for a single size class.
type ClassStatistics struct {
	// PreallocatedCount is the number of blocks seeded into the class by Preallocate
	PreallocatedCount int
	// FreeCount is the number of blocks currently waiting in the class's free list
	FreeCount int
	// ReuseCount is the number of acquires served from the free list
	ReuseCount int
	// HeapCount is the number of acquires that fell back to the Go heap
	HeapCount int
}

func (s *ClassStatistics) Clear() {
	s.PreallocatedCount = 0
	s.FreeCount = 0
	s.ReuseCount = 0
	s.HeapCount = 0
}

func (s *ClassStatistics) AddClassStatistics(other *ClassStatistics) {
	s.PreallocatedCount += other.PreallocatedCount
	s.FreeCount += other.FreeCount
	s.ReuseCount += other.ReuseCount
	s.HeapCount += other.HeapCount
}

// Statistics are the running totals for a whole allocator, one entry per size class
// plus allocator-wide counters.
type Statistics struct {
	Classes [sizeclass.Count]ClassStatistics

	// LiveCount is the number of blocks currently acquired and not yet released
	LiveCount int
	// HeapBytes is the cumulative number of bytes drawn from the Go heap, preallocation included
	HeapBytes int
}

func (s *Statistics) Clear() {
	for class := range s.Classes {
		s.Classes[class].Clear()
	}
	s.LiveCount = 0
	s.HeapBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	for class := range s.Classes {
		s.Classes[class].AddClassStatistics(&other.Classes[class])
	}
	s.LiveCount += other.LiveCount
	s.HeapBytes += other.HeapBytes
}

// AddStatistics accumulates the allocator's current totals into stats.
func (a *Allocator) AddStatistics(stats *Statistics) {
	if a.destroyed {
		panic("slab: AddStatistics called on a destroyed allocator")
	}

	for class := 0; class < sizeclass.Count; class++ {
		a.freeLists[class].AddStatistics(stats)
	}

	a.countMutex.Lock()
	defer a.countMutex.Unlock()

	stats.LiveCount += a.liveCount
	stats.HeapBytes += a.heapBytes
	for class, count := range a.heapCount {
		stats.Classes[class].HeapCount += count
	}
}

// Statistics returns a snapshot of the allocator's running totals.
func (a *Allocator) Statistics() Statistics {
	var stats Statistics
	a.AddStatistics(&stats)

	return stats
}

// BuildStatsString writes the allocator's statistics to the provided JSON writer as a
// single object with one entry per size class.
func (a *Allocator) BuildStatsString(writer *jwriter.Writer) {
	if a.destroyed {
		panic("slab: BuildStatsString called on a destroyed allocator")
	}

	obj := writer.Object()
	defer obj.End()

	a.countMutex.Lock()
	liveCount := a.liveCount
	heapBytes := a.heapBytes
	heapCount := a.heapCount
	a.countMutex.Unlock()

	obj.Name("Flags").String(a.createFlags.String())
	obj.Name("Synchronized").Bool(a.useMutex)
	obj.Name("LiveBlocks").Int(liveCount)
	obj.Name("HeapBytes").Int(heapBytes)

	classArray := obj.Name("FreeLists").Array()
	defer classArray.End()

	for class := 0; class < sizeclass.Count; class++ {
		classObj := classArray.Object()
		a.freeLists[class].printParameters(&classObj)
		classObj.Name("FromHeap").Int(heapCount[class])
		classObj.End()
	}
}
