package pressure_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/borlak/memory-manager/pressure"
	"github.com/borlak/memory-manager/sizeclass"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestHammerKeepsBlocksConsistent(t *testing.T) {
	report, err := pressure.Hammer(testLogger(), pressure.HammerConfig{
		Workers:      4,
		Cycles:       25000,
		RequestBytes: 128,
	})
	require.NoError(t, err)

	require.Equal(t, 4, report.Workers)
	require.Equal(t, 25000, report.Cycles)
	require.Equal(t, int64(0), report.Corrupted)
}

func TestHammerRejectsOversizedRequests(t *testing.T) {
	_, err := pressure.Hammer(testLogger(), pressure.HammerConfig{
		RequestBytes: sizeclass.MaxSize + 1,
	})
	require.ErrorIs(t, err, sizeclass.InvalidSizeError)
}
