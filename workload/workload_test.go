package workload_test

import (
	"testing"

	"github.com/borlak/memory-manager/sizeclass"
	"github.com/borlak/memory-manager/workload"
	"github.com/stretchr/testify/require"
)

func TestGenerateStaysWithinBudget(t *testing.T) {
	load, err := workload.Generate(workload.Config{
		Budget:      10 * 1024 * 1024,
		MaxRequests: 100000,
		Seed:        1,
	})
	require.NoError(t, err)

	require.LessOrEqual(t, load.TotalBytes, 10*1024*1024)
	require.LessOrEqual(t, len(load.Requests), 100000)
	require.NotEmpty(t, load.Requests)

	total := 0
	for _, size := range load.Requests {
		total += size
	}
	require.Equal(t, load.TotalBytes, total)
}

func TestGenerateHonorsMaxRequests(t *testing.T) {
	load, err := workload.Generate(workload.Config{
		Budget:      1 << 40,
		MaxRequests: 50,
		Seed:        7,
	})
	require.NoError(t, err)
	require.Len(t, load.Requests, 50)
}

func TestGenerateDrawsOnlyClassSizes(t *testing.T) {
	load, err := workload.Generate(workload.Config{
		Budget:      1024 * 1024,
		MaxRequests: 10000,
		Seed:        42,
	})
	require.NoError(t, err)

	for _, size := range load.Requests {
		index, err := sizeclass.Index(size)
		require.NoError(t, err)
		require.Equal(t, size, sizeclass.SizeOf(index))
	}
}

func TestGenerateClassCountsConsistent(t *testing.T) {
	load, err := workload.Generate(workload.Config{
		Budget:      1024 * 1024,
		MaxRequests: 10000,
		Seed:        42,
	})
	require.NoError(t, err)

	requestCount := 0
	countedBytes := 0
	for class, count := range load.ClassCounts {
		requestCount += count
		countedBytes += count * sizeclass.SizeOf(class)
	}
	require.Equal(t, len(load.Requests), requestCount)
	require.Equal(t, load.TotalBytes, countedBytes)
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	first, err := workload.Generate(workload.Config{
		Budget:      64 * 1024,
		MaxRequests: 1000,
		Seed:        99,
	})
	require.NoError(t, err)

	second, err := workload.Generate(workload.Config{
		Budget:      64 * 1024,
		MaxRequests: 1000,
		Seed:        99,
	})
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	_, err := workload.Generate(workload.Config{Budget: 0, MaxRequests: 100})
	require.ErrorIs(t, err, workload.InvalidConfigError)

	_, err = workload.Generate(workload.Config{Budget: -1, MaxRequests: 100})
	require.ErrorIs(t, err, workload.InvalidConfigError)

	_, err = workload.Generate(workload.Config{Budget: 1024, MaxRequests: 0})
	require.ErrorIs(t, err, workload.InvalidConfigError)
}
