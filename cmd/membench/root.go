package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/borlak/memory-manager/bench"
	"github.com/borlak/memory-manager/pressure"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	// Pressure options, applied in order before the benchmark
	clearCache  bool
	fragment    bool
	pageFaults  bool
	memPressure bool
	threads     bool
	benchOnly   bool

	// Output options
	verbose bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "membench",
	Short: "Benchmark a fixed-size-class allocator against the system allocator",
	Long: `membench times one allocation workload twice: once against the system
allocator and once against a preallocated fixed-size-class allocator. The pressure
options disturb the machine first so the timings are less flattered by warm caches
and committed pages. The benchmark itself always runs after the options.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBench,
}

func init() {
	rootCmd.Flags().BoolVarP(&clearCache, "cache", "c", false, "Clear CPU caches")
	rootCmd.Flags().BoolVarP(&fragment, "fragment", "f", false, "Fragment memory")
	rootCmd.Flags().BoolVarP(&pageFaults, "page-faults", "p", false, "Force page faults")
	rootCmd.Flags().BoolVarP(&memPressure, "memory", "m", false, "Simulate memory pressure")
	rootCmd.Flags().BoolVarP(&threads, "threads", "t", false, "Run the multi-threaded allocator test")
	rootCmd.Flags().BoolVarP(&benchOnly, "benchmark", "b", false, "Run the benchmark with no extra pressure")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "Write the benchmark report as JSON")
}

func runBench(cmd *cobra.Command, args []string) error {
	if cmd.Flags().NFlag() == 0 {
		_ = cmd.Usage()
		return errors.New("at least one option is required")
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if clearCache {
		lines := pressure.ClearCPUCache(pressure.CacheConfig{})
		logger.Debug("cleared CPU caches", slog.Int("linesTouched", lines))
	}
	if fragment {
		report := pressure.FragmentHeap(pressure.FragmentConfig{})
		logger.Debug("fragmented the heap",
			slog.Int("freedEarly", report.FreedEarly),
			slog.Int("freedLate", report.FreedLate),
		)
	}
	if pageFaults {
		report, err := pressure.ForcePageFaults(pressure.PageFaultConfig{})
		if err != nil {
			return err
		}
		logger.Debug("forced page faults",
			slog.Int("pagesTouched", report.PagesTouched),
			slog.Bool("discarded", report.Discarded),
		)
	}
	if memPressure {
		committed, err := pressure.ConsumeMemory(pressure.MemoryPressureConfig{})
		if err != nil {
			return err
		}
		logger.Debug("simulated memory pressure", slog.Int("committedBytes", committed))
	}
	if threads {
		report, err := pressure.Hammer(logger, pressure.HammerConfig{})
		if err != nil {
			return err
		}
		if report.Corrupted > 0 {
			return errors.Newf("the multi-threaded test corrupted %d blocks", report.Corrupted)
		}
		logger.Debug("hammered the allocator",
			slog.Int("workers", report.Workers),
			slog.Int("cycles", report.Cycles),
		)
	}

	report, err := bench.Run(logger, bench.DefaultOptions())
	if err != nil {
		return err
	}

	if jsonOut {
		return report.WriteJSON(cmd.OutOrStdout())
	}
	return report.WriteText(cmd.OutOrStdout())
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
