// Package bench times one randomized allocation workload against the Go heap and
// against a preallocated slab allocator, then reports wall times and per-class counts.
package bench

import (
	"log/slog"
	"time"

	"github.com/borlak/memory-manager/sizeclass"
	"github.com/borlak/memory-manager/slab"
	"github.com/borlak/memory-manager/workload"
)

const (
	// DefaultBudget is the number of bytes each phase requests in total when running with
	// DefaultOptions. It is equal to 10Mb
	DefaultBudget = 10 * 1024 * 1024
	// DefaultMaxRequests is the request sequence cap used by DefaultOptions
	DefaultMaxRequests = 100000

	// defaultSettleIterations is the busy-spin length DefaultOptions places between the
	// two timed phases
	defaultSettleIterations = 1000000000
)

// Options contains optional settings for a benchmark run
type Options struct {
	// Budget is the number of bytes the workload requests in total during each phase
	Budget int
	// MaxRequests caps the workload's request count
	MaxRequests int
	// Seed seeds workload generation. Zero draws a seed from the wall clock
	Seed int64

	// PreallocateFactor multiplies the budget handed to Allocator.Preallocate before the
	// pooled phase. Zero behaves as 1. Pass 2 to measure a double-seeded allocator
	PreallocateFactor int

	// SettleIterations busy-spins between the system phase and the pooled phase so cache
	// effects from the first phase can decay. Zero disables the spin
	SettleIterations int

	// AllocatorOptions is handed to slab.New for the pooled phase
	AllocatorOptions slab.CreateOptions
}

// DefaultOptions returns the options the membench tool runs with: a 10Mb budget, at most
// 100000 requests, and a settle spin between the phases.
func DefaultOptions() Options {
	return Options{
		Budget:           DefaultBudget,
		MaxRequests:      DefaultMaxRequests,
		SettleIterations: defaultSettleIterations,
	}
}

// Run generates one workload and times it twice: a system phase served directly by the
// Go heap, and a pooled phase served by a slab allocator preallocated with the same
// budget. Each phase acquires every request in order and then releases everything.
func Run(logger *slog.Logger, opts Options) (*Report, error) {
	load, err := workload.Generate(workload.Config{
		Budget:      opts.Budget,
		MaxRequests: opts.MaxRequests,
		Seed:        opts.Seed,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("bench.Run",
		slog.Int("requests", len(load.Requests)),
		slog.Int("requestedBytes", load.TotalBytes))

	systemTime := runSystemPhase(load)

	allocator, err := slab.New(logger, opts.AllocatorOptions)
	if err != nil {
		return nil, err
	}

	factor := opts.PreallocateFactor
	if factor == 0 {
		factor = 1
	}
	preallocated, err := allocator.Preallocate(opts.Budget * factor)
	if err != nil {
		return nil, err
	}

	settle(opts.SettleIterations)

	pooledTime, err := runPooledPhase(allocator, load)
	if err != nil {
		return nil, err
	}

	stats := allocator.Statistics()
	if err = allocator.Destroy(); err != nil {
		return nil, err
	}

	report := &Report{
		Requests:          len(load.Requests),
		RequestedBytes:    load.TotalBytes,
		PreallocatedBytes: preallocated,
		SystemTime:        systemTime,
		PooledTime:        pooledTime,
		Rows:              make([]ClassRow, sizeclass.Count),
	}
	for class := 0; class < sizeclass.Count; class++ {
		report.Rows[class] = ClassRow{
			ClassSize:    sizeclass.SizeOf(class),
			Preallocated: stats.Classes[class].PreallocatedCount,
			Requested:    load.ClassCounts[class],
		}
	}

	return report, nil
}

// runSystemPhase serves every request with a plain heap allocation, then drops the
// references in order. Go has no explicit free, so dropping the references is the
// closest analogue of a release pass; the garbage collector reclaims them later.
func runSystemPhase(load *workload.Workload) time.Duration {
	held := make([][]byte, len(load.Requests))

	start := time.Now()
	for i, size := range load.Requests {
		held[i] = make([]byte, size)
	}
	for i := range held {
		held[i] = nil
	}

	return time.Since(start)
}

func runPooledPhase(allocator *slab.Allocator, load *workload.Workload) (time.Duration, error) {
	held := make([]slab.Block, len(load.Requests))

	start := time.Now()
	for i, size := range load.Requests {
		block, err := allocator.Acquire(size)
		if err != nil {
			return 0, err
		}
		held[i] = block
	}
	for i := range held {
		if err := allocator.Release(held[i]); err != nil {
			return 0, err
		}
	}

	return time.Since(start), nil
}

var settleSink int

// settle burns CPU instead of sleeping so the benchmark thread stays hot while cache
// contents from the previous phase age out.
func settle(iterations int) {
	spin := 0
	for i := 0; i < iterations; i++ {
		spin += i
	}
	settleSink = spin
}
