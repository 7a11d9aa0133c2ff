//go:build !linux

package pressure

// ForcePageFaults touches every page of a large buffer so each touch faults the page
// in. Without madvise support the pages cannot be discarded between passes, so only
// the first pass runs.
func ForcePageFaults(config PageFaultConfig) (PageFaultReport, error) {
	bufferBytes, pageBytes := config.withDefaults()

	data := make([]byte, bufferBytes)

	var report PageFaultReport
	for i := 0; i < len(data); i += pageBytes {
		data[i] = 1
		report.PagesTouched++
	}

	return report, nil
}
