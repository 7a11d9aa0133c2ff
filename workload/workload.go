// Package workload generates the randomized allocation request sequences the benchmark
// replays against an allocator.
package workload

import (
	"math/rand"
	"time"

	"github.com/borlak/memory-manager/sizeclass"
	cerrors "github.com/cockroachdb/errors"
)

// Config controls request sequence generation.
type Config struct {
	// Budget is the number of bytes the whole sequence may request in total. Generation
	// stops before the request that would cross it, so the sequence never exceeds it
	Budget int
	// MaxRequests caps the length of the sequence
	MaxRequests int
	// Seed seeds the random source. Zero draws a seed from the wall clock
	Seed int64
}

// Workload is one generated allocation request sequence.
type Workload struct {
	// Requests holds one class size per request, in the order they should be issued
	Requests []int
	// ClassCounts is how many requests drew each size class
	ClassCounts [sizeclass.Count]int
	// TotalBytes is the sum of all requested sizes
	TotalBytes int
}

// Generate builds a request sequence by drawing sizes uniformly from the size class
// table. Generation ends when the sequence reaches cfg.MaxRequests requests or when the
// next draw would push TotalBytes past cfg.Budget; that draw is discarded.
func Generate(cfg Config) (*Workload, error) {
	if cfg.Budget <= 0 {
		return nil, cerrors.Wrapf(InvalidConfigError, "budget is %d, but it must be positive", cfg.Budget)
	}
	if cfg.MaxRequests <= 0 {
		return nil, cerrors.Wrapf(InvalidConfigError, "max request count is %d, but it must be positive", cfg.MaxRequests)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	load := &Workload{
		Requests: make([]int, 0, cfg.MaxRequests),
	}
	for load.TotalBytes < cfg.Budget && len(load.Requests) < cfg.MaxRequests {
		class := rng.Intn(sizeclass.Count)
		classSize := sizeclass.SizeOf(class)
		if load.TotalBytes+classSize > cfg.Budget {
			break
		}

		load.Requests = append(load.Requests, classSize)
		load.ClassCounts[class]++
		load.TotalBytes += classSize
	}

	return load, nil
}
