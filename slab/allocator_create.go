package slab

import (
	"log/slog"
	"strings"

	"github.com/borlak/memory-manager/internal/utils"
	"github.com/borlak/memory-manager/sizeclass"
	cerrors "github.com/cockroachdb/errors"
)

// CreateFlags indicate specific allocator behaviors to activate or deactivate
type CreateFlags int32

const (
	// AllocatorCreateExternallySynchronized ensures that this allocator and all objects created from it
	// will not be synchronized internally. The consumer must guarantee they are used from only one
	// thread at a time or are synchronized by some other mechanism, but performance may improve because
	// internal mutexes are not used.
	AllocatorCreateExternallySynchronized CreateFlags = 1 << iota

	// AllocatorCreateBlockTracking makes the allocator record the backing address of every outstanding
	// block. Releasing a block twice, or releasing a block this allocator never handed out, then fails
	// with BlockNotAcquiredError instead of corrupting a free list.
	AllocatorCreateBlockTracking
)

func (f CreateFlags) String() string {
	if f == 0 {
		return "0"
	}

	var names []string
	if f&AllocatorCreateExternallySynchronized != 0 {
		names = append(names, "AllocatorCreateExternallySynchronized")
	}
	if f&AllocatorCreateBlockTracking != 0 {
		names = append(names, "AllocatorCreateBlockTracking")
	}

	return strings.Join(names, "|")
}

// CreateOptions contains optional settings when creating an allocator
type CreateOptions struct {
	// Flags indicates specific allocator behaviors to activate or deactivate
	Flags CreateFlags

	// HeapLimit can be left zero. If it is provided, it is the maximum number of bytes this
	// allocator may obtain from the Go heap across all size classes, preallocation included.
	//
	// The limit is enforced at runtime (the allocator will go so far as to return
	// HeapExhaustedError when attempting to allocate beyond the limit).
	HeapLimit int
}

// New creates a new Allocator
//
// logger - Destination for lifecycle debug logging. May not be nil
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, options CreateOptions) (*Allocator, error) {
	logger.Debug("Allocator::New", slog.Any("flags", options.Flags))

	if options.HeapLimit < 0 {
		return nil, cerrors.Newf("slab.CreateOptions.HeapLimit was %d, but it may not be negative", options.HeapLimit)
	}

	useMutex := options.Flags&AllocatorCreateExternallySynchronized == 0

	allocator := &Allocator{
		useMutex:    useMutex,
		logger:      logger,
		createFlags: options.Flags,
		heapLimit:   options.HeapLimit,
		countMutex:  utils.OptionalMutex{UseMutex: useMutex},
	}

	for class := 0; class < sizeclass.Count; class++ {
		allocator.freeLists[class].Init(class, useMutex)
	}

	if options.Flags&AllocatorCreateBlockTracking != 0 {
		allocator.tracker = &blockTracker{}
		allocator.tracker.Init(useMutex)
	}

	return allocator, nil
}
