package slab_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/borlak/memory-manager/slab"
	"github.com/stretchr/testify/require"
)

var benchSink []byte

func BenchmarkAcquireRelease(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	allocator, err := slab.New(logger, slab.CreateOptions{})
	require.NoError(b, err)

	// Warm the class so the steady state measures free-list reuse, not the heap.
	block, err := allocator.Acquire(128)
	require.NoError(b, err)
	require.NoError(b, allocator.Release(block))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		block, err := allocator.Acquire(128)
		if err != nil {
			b.Fatal(err)
		}
		if err = allocator.Release(block); err != nil {
			b.Fatal(err)
		}
	}
	b.StopTimer()

	require.NoError(b, allocator.Destroy())
}

func BenchmarkAcquireReleaseExternallySynchronized(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	allocator, err := slab.New(logger, slab.CreateOptions{
		Flags: slab.AllocatorCreateExternallySynchronized,
	})
	require.NoError(b, err)

	block, err := allocator.Acquire(128)
	require.NoError(b, err)
	require.NoError(b, allocator.Release(block))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		block, err := allocator.Acquire(128)
		if err != nil {
			b.Fatal(err)
		}
		if err = allocator.Release(block); err != nil {
			b.Fatal(err)
		}
	}
	b.StopTimer()

	require.NoError(b, allocator.Destroy())
}

func BenchmarkHeapMake(b *testing.B) {
	for i := 0; i < b.N; i++ {
		benchSink = make([]byte, 128)
	}
}
