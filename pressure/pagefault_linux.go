//go:build linux

package pressure

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// ForcePageFaults touches every page of a large buffer so each touch faults the page
// in, asks the kernel to discard the pages, then touches them all a second time so
// every page faults again.
func ForcePageFaults(config PageFaultConfig) (PageFaultReport, error) {
	bufferBytes, pageBytes := config.withDefaults()

	data := make([]byte, bufferBytes)

	var report PageFaultReport
	for i := 0; i < len(data); i += pageBytes {
		data[i] = 1
		report.PagesTouched++
	}

	if err := unix.Madvise(data, unix.MADV_DONTNEED); err != nil {
		return report, errors.Wrap(err, "discarding the touched pages")
	}
	report.Discarded = true

	for i := 0; i < len(data); i += pageBytes {
		data[i] = 1
		report.PagesTouched++
	}

	return report, nil
}
