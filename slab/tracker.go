package slab

import (
	"unsafe"

	"github.com/borlak/memory-manager/internal/utils"
	cerrors "github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
)

// blockTracker records the backing address of every outstanding block so that misuse,
// like releasing the same block twice or releasing memory that never came from this
// allocator, is caught instead of corrupting a free list.
type blockTracker struct {
	mutex utils.OptionalMutex
	live  *swiss.Map[uintptr, int]
}

func (t *blockTracker) Init(useMutex bool) {
	t.mutex = utils.OptionalMutex{UseMutex: useMutex}
	t.live = swiss.NewMap[uintptr, int](64)
}

func (t *blockTracker) Add(block Block) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.live.Put(blockKey(block), block.class)
}

func (t *blockTracker) Remove(block Block) error {
	key := blockKey(block)

	t.mutex.Lock()
	defer t.mutex.Unlock()

	class, found := t.live.Get(key)
	if !found {
		return cerrors.Wrapf(BlockNotAcquiredError, "no outstanding block is backed by address %#x", key)
	}
	if class != block.class {
		return cerrors.Wrapf(BlockNotAcquiredError, "the block backed by address %#x belongs to class %d, not class %d", key, class, block.class)
	}

	t.live.Delete(key)
	return nil
}

func (t *blockTracker) Count() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.live.Count()
}

func blockKey(block Block) uintptr {
	return uintptr(unsafe.Pointer(&block.data[0]))
}
