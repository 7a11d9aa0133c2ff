package slab

import "github.com/pkg/errors"

// HeapExhaustedError is the error returned when obtaining another block from the Go heap would
// exceed the allocator's HeapLimit. The failed operation has no other effect, so callers can
// release blocks and try again
var HeapExhaustedError error = errors.New("the allocator's heap limit has been reached")

// BlockNotAcquiredError is the error returned from Release when the provided block is not an
// outstanding allocation of this allocator, for example because it was already released
var BlockNotAcquiredError error = errors.New("block is not an outstanding allocation of this allocator")
