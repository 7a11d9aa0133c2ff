// Package slab implements a fixed-size-class memory allocator. Requests are rounded up
// to one of sizeclass's power-of-two block sizes and served from a per-class free list
// of previously released blocks, falling back to the Go heap when the list is empty.
package slab

import (
	"log/slog"

	"github.com/borlak/memory-manager/internal/utils"
	"github.com/borlak/memory-manager/sizeclass"
	"github.com/cockroachdb/errors"
)

// Allocator hands out fixed-size blocks from per-class free lists. A released block goes
// back to the list of the class it was drawn from and is handed out again by later
// acquires, so steady-state workloads stop touching the Go heap entirely.
type Allocator struct {
	logger      *slog.Logger
	useMutex    bool
	createFlags CreateFlags

	freeLists [sizeclass.Count]freeList
	tracker   *blockTracker

	countMutex utils.OptionalMutex
	heapLimit  int
	heapBytes  int
	heapCount  [sizeclass.Count]int
	liveCount  int
	destroyed  bool
}

// Acquire returns a block of the smallest class size that can hold size bytes. The block
// comes from the class's free list when it has entries and from the Go heap otherwise.
func (a *Allocator) Acquire(size int) (Block, error) {
	if a.destroyed {
		panic("slab: Acquire called on a destroyed allocator")
	}

	class, err := sizeclass.Index(size)
	if err != nil {
		return Block{}, err
	}

	data, reused := a.freeLists[class].Pop()
	if !reused {
		data, err = a.heapAlloc(class)
		if err != nil {
			return Block{}, err
		}
	}

	block := Block{data: data, class: class}
	if a.tracker != nil {
		a.tracker.Add(block)
	}

	a.countMutex.Lock()
	a.liveCount++
	if !reused {
		a.heapCount[class]++
	}
	a.countMutex.Unlock()

	return block, nil
}

// Release returns a block to the free list of the class it was drawn from. Releasing the
// zero Block fails with BlockNotAcquiredError, as does releasing any block twice when
// block tracking is enabled.
func (a *Allocator) Release(block Block) error {
	if a.destroyed {
		panic("slab: Release called on a destroyed allocator")
	}

	if block.IsZero() {
		return errors.Wrap(BlockNotAcquiredError, "the zero Block was never acquired")
	}

	if a.tracker != nil {
		if err := a.tracker.Remove(block); err != nil {
			return err
		}
	}

	a.freeLists[block.class].Push(block.data)

	a.countMutex.Lock()
	a.liveCount--
	a.countMutex.Unlock()

	return nil
}

func (a *Allocator) heapAlloc(class int) ([]byte, error) {
	classSize := sizeclass.SizeOf(class)

	a.countMutex.Lock()
	defer a.countMutex.Unlock()

	if a.heapLimit != 0 && a.heapBytes+classSize > a.heapLimit {
		return nil, errors.Wrapf(HeapExhaustedError, "%d more bytes would exceed the %d-byte heap limit, %d bytes are already in use", classSize, a.heapLimit, a.heapBytes)
	}
	a.heapBytes += classSize

	return make([]byte, classSize), nil
}

// Validate walks the allocator's bookkeeping and returns an error describing the first
// inconsistency it finds. It is meant for tests and teardown checks, not for concurrent
// use while other goroutines are allocating.
func (a *Allocator) Validate() error {
	if a.destroyed {
		panic("slab: Validate called on a destroyed allocator")
	}

	for class := 0; class < sizeclass.Count; class++ {
		if err := a.freeLists[class].Validate(); err != nil {
			return err
		}
	}

	a.countMutex.Lock()
	liveCount := a.liveCount
	heapBytes := a.heapBytes
	heapCount := a.heapCount
	a.countMutex.Unlock()

	if liveCount < 0 {
		return errors.Errorf("the allocator's live block count is %d, more blocks were released than acquired", liveCount)
	}

	accountedBytes := 0
	for class := 0; class < sizeclass.Count; class++ {
		accountedBytes += sizeclass.SizeOf(class) * (a.freeLists[class].PreallocatedCount() + heapCount[class])
	}
	if accountedBytes != heapBytes {
		return errors.Errorf("the allocator drew %d bytes from the heap, but its per-class counts account for %d", heapBytes, accountedBytes)
	}

	if a.tracker != nil {
		trackedCount := a.tracker.Count()
		if trackedCount != liveCount {
			return errors.Errorf("the allocator's live block count is %d, but %d blocks are tracked", liveCount, trackedCount)
		}
	}

	return nil
}

// Destroy tears down the allocator. It refuses while any block is still outstanding. On
// success every free list is dropped so the heap can reclaim the blocks, and any further
// use of the allocator panics.
func (a *Allocator) Destroy() error {
	a.logger.Debug("Allocator::Destroy")

	a.countMutex.Lock()
	defer a.countMutex.Unlock()

	if a.destroyed {
		panic("slab: Destroy called on a destroyed allocator")
	}
	if a.liveCount > 0 {
		return errors.Errorf("the allocator still has %d blocks that remain unreleased", a.liveCount)
	}

	for class := 0; class < sizeclass.Count; class++ {
		a.freeLists[class].Drop()
	}
	a.destroyed = true

	return nil
}
