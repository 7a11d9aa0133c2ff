package slab

import (
	"github.com/borlak/memory-manager/internal/utils"
	"github.com/borlak/memory-manager/sizeclass"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
)

// freeList is the LIFO stack of available blocks for a single size class. Blocks enter on
// Release or Preallocate and leave on Acquire, most recently pushed first.
type freeList struct {
	mutex  utils.OptionalRWMutex
	class  int
	blocks [][]byte

	preallocated int
	reused       int
}

func (l *freeList) Init(class int, useMutex bool) {
	l.class = class
	l.mutex = utils.OptionalRWMutex{UseMutex: useMutex}
}

// Pop removes and returns the most recently pushed block. The second return value is
// false when the list is empty.
func (l *freeList) Pop() ([]byte, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	blockCount := len(l.blocks)
	if blockCount == 0 {
		return nil, false
	}

	data := l.blocks[blockCount-1]
	l.blocks[blockCount-1] = nil
	l.blocks = l.blocks[:blockCount-1]
	l.reused++

	return data, true
}

func (l *freeList) Push(data []byte) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.blocks = append(l.blocks, data)
}

// Seed pushes a block obtained ahead of demand and counts it as preallocated.
func (l *freeList) Seed(data []byte) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.blocks = append(l.blocks, data)
	l.preallocated++
}

func (l *freeList) FreeCount() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return len(l.blocks)
}

func (l *freeList) PreallocatedCount() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.preallocated
}

// Drop discards every block in the list so the heap can reclaim them.
func (l *freeList) Drop() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.blocks = nil
}

func (l *freeList) Validate() error {
	classSize := sizeclass.SizeOf(l.class)

	l.mutex.RLock()
	defer l.mutex.RUnlock()

	for blockIndex, data := range l.blocks {
		if data == nil {
			return errors.Errorf("class %d: free list entry %d is nil", l.class, blockIndex)
		}
		if len(data) != classSize {
			return errors.Errorf("class %d: free list entry %d is %d bytes, but every block in this class is %d bytes", l.class, blockIndex, len(data), classSize)
		}
		if err := sizeclass.CheckPow2(len(data), "free block size"); err != nil {
			return err
		}
	}

	return nil
}

func (l *freeList) AddStatistics(stats *Statistics) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	stats.Classes[l.class].PreallocatedCount += l.preallocated
	stats.Classes[l.class].FreeCount += len(l.blocks)
	stats.Classes[l.class].ReuseCount += l.reused
}

func (l *freeList) printParameters(json *jwriter.ObjectState) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	json.Name("Class").Int(l.class)
	json.Name("BlockSize").Int(sizeclass.SizeOf(l.class))
	json.Name("FreeBlocks").Int(len(l.blocks))
	json.Name("Preallocated").Int(l.preallocated)
	json.Name("Reused").Int(l.reused)
}
