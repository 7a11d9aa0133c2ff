// Package pressure holds the machine-disturbance helpers the membench tool can run
// before its benchmark: cache clearing, heap fragmentation, page-fault forcing, memory
// pressure, and a concurrent allocator hammer. None of them contain allocator logic;
// the hammer drives a slab allocator purely through its public interface.
package pressure

import (
	"math/rand"
	"time"
)

const (
	defaultCacheBytes     = 32 * 1024 * 1024
	defaultCacheLineBytes = 64

	defaultFragmentBlockCount = 10000
	defaultFragmentBlockBytes = 128
)

// CacheConfig controls ClearCPUCache. The zero value walks a 32Mb buffer in 64-byte
// strides.
type CacheConfig struct {
	// BufferBytes is the size of the scratch buffer to walk. It should comfortably
	// exceed the last-level cache
	BufferBytes int
	// LineBytes is the stride between touches
	LineBytes int
}

// ClearCPUCache walks a scratch buffer one cache line at a time so benchmark memory is
// evicted from every cache level. It returns the number of lines touched.
func ClearCPUCache(config CacheConfig) int {
	bufferBytes := config.BufferBytes
	if bufferBytes == 0 {
		bufferBytes = defaultCacheBytes
	}
	lineBytes := config.LineBytes
	if lineBytes == 0 {
		lineBytes = defaultCacheLineBytes
	}

	buffer := make([]byte, bufferBytes)
	touched := 0
	for i := 0; i < len(buffer); i += lineBytes {
		buffer[i] = byte(i)
		touched++
	}

	return touched
}

// FragmentConfig controls FragmentHeap. The zero value allocates 10000 blocks of 128
// bytes. A zero Seed draws a seed from the wall clock.
type FragmentConfig struct {
	BlockCount int
	BlockBytes int
	Seed       int64
}

// FragmentReport summarizes one fragmentation pass.
type FragmentReport struct {
	// FreedEarly is the number of blocks dropped by the random pass
	FreedEarly int
	// FreedLate is the number of blocks dropped by the sweep that follows
	FreedLate int
}

// FragmentHeap churns the Go heap: it allocates a batch of fixed-size blocks, drops
// roughly half of them at random, then drops the rest. The slab allocator is not
// involved; this disturbs the system heap its fallback path draws from.
func FragmentHeap(config FragmentConfig) FragmentReport {
	blockCount := config.BlockCount
	if blockCount == 0 {
		blockCount = defaultFragmentBlockCount
	}
	blockBytes := config.BlockBytes
	if blockBytes == 0 {
		blockBytes = defaultFragmentBlockBytes
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	held := make([][]byte, blockCount)
	for i := range held {
		held[i] = make([]byte, blockBytes)
		held[i][0] = 1
	}

	var report FragmentReport
	for i := range held {
		if rng.Intn(2) == 1 {
			held[i] = nil
			report.FreedEarly++
		}
	}
	for i := range held {
		if held[i] != nil {
			held[i] = nil
			report.FreedLate++
		}
	}

	return report
}
