package pressure

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/borlak/memory-manager/sizeclass"
	"github.com/borlak/memory-manager/slab"
	"github.com/cockroachdb/errors"
	"github.com/spaolacci/murmur3"
)

const (
	defaultHammerWorkers      = 4
	defaultHammerCycles       = 100000
	defaultHammerRequestBytes = 128
)

// HammerConfig controls Hammer. The zero value runs 4 workers through 100000
// acquire-and-release cycles of 128-byte blocks against one shared allocator.
type HammerConfig struct {
	Workers      int
	Cycles       int
	RequestBytes int

	// AllocatorFlags is handed to slab.New for the shared allocator. Passing
	// AllocatorCreateExternallySynchronized here removes the allocator's internal
	// locking while the workers stay concurrent, so corruption and bookkeeping
	// failures become expected rather than reported bugs
	AllocatorFlags slab.CreateFlags
}

// HammerReport summarizes one hammer run.
type HammerReport struct {
	Workers int
	Cycles  int
	// Corrupted counts blocks whose contents changed between a worker's fill and its
	// checksum, which means two workers held the same block at once
	Corrupted int64
}

// Hammer drives one shared allocator from concurrent workers. Every worker fills each
// acquired block with its own byte pattern and verifies the block's checksum before
// releasing it, so a block handed to two workers at once shows up as corruption. The
// allocator's bookkeeping is validated after the workers finish.
func Hammer(logger *slog.Logger, config HammerConfig) (HammerReport, error) {
	workers := config.Workers
	if workers == 0 {
		workers = defaultHammerWorkers
	}
	cycles := config.Cycles
	if cycles == 0 {
		cycles = defaultHammerCycles
	}
	requestBytes := config.RequestBytes
	if requestBytes == 0 {
		requestBytes = defaultHammerRequestBytes
	}

	classIndex, err := sizeclass.Index(requestBytes)
	if err != nil {
		return HammerReport{}, err
	}
	blockBytes := sizeclass.SizeOf(classIndex)

	logger.Debug("pressure.Hammer",
		slog.Int("workers", workers),
		slog.Int("cycles", cycles),
		slog.Int("requestBytes", requestBytes),
	)

	allocator, err := slab.New(logger, slab.CreateOptions{Flags: config.AllocatorFlags})
	if err != nil {
		return HammerReport{}, err
	}

	report := HammerReport{Workers: workers, Cycles: cycles}

	var corrupted atomic.Int64
	workerErrs := make([]error, workers)

	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			pattern := byte(worker + 1)
			reference := make([]byte, blockBytes)
			for i := range reference {
				reference[i] = pattern
			}
			expected := murmur3.Sum64(reference)

			for cycle := 0; cycle < cycles; cycle++ {
				block, err := allocator.Acquire(requestBytes)
				if err != nil {
					workerErrs[worker] = err
					return
				}

				data := block.Bytes()
				for i := range data {
					data[i] = pattern
				}
				if murmur3.Sum64(data) != expected {
					corrupted.Add(1)
				}

				err = allocator.Release(block)
				if err != nil {
					workerErrs[worker] = err
					return
				}
			}
		}(worker)
	}
	wg.Wait()

	report.Corrupted = corrupted.Load()

	for _, err := range workerErrs {
		if err != nil {
			return report, err
		}
	}

	err = allocator.Validate()
	if err != nil {
		return report, errors.Wrap(err, "allocator bookkeeping failed validation after the run")
	}

	err = allocator.Destroy()
	if err != nil {
		return report, errors.Wrap(err, "tearing down the hammered allocator")
	}

	return report, nil
}
