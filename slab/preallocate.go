package slab

import (
	"log/slog"

	"github.com/borlak/memory-manager/sizeclass"
	"github.com/cockroachdb/errors"
)

// Preallocate seeds the free lists ahead of demand. Classes are visited in ascending
// order, one block each, wrapping around and repeating until the next block would push
// the total seeded bytes past budget. The return value is the number of bytes actually
// seeded, which always lands within one class size of budget.
//
// If the allocator has a HeapLimit and it is reached mid-pass, Preallocate keeps what it
// seeded so far and returns HeapExhaustedError. The allocator remains usable, so the
// caller decides whether a partially seeded allocator is acceptable.
func (a *Allocator) Preallocate(budget int) (int, error) {
	a.logger.Debug("Allocator::Preallocate", slog.Int("budget", budget))

	if a.destroyed {
		panic("slab: Preallocate called on a destroyed allocator")
	}
	if budget < 0 {
		return 0, errors.Newf("preallocation budget is %d, but it may not be negative", budget)
	}

	allocated := 0
	class := 0
	for {
		classSize := sizeclass.SizeOf(class)
		if allocated+classSize > budget {
			break
		}

		data, err := a.heapAlloc(class)
		if err != nil {
			return allocated, err
		}
		a.freeLists[class].Seed(data)

		allocated += classSize
		class = (class + 1) % sizeclass.Count
	}

	return allocated, nil
}
