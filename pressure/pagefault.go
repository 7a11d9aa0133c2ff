package pressure

const (
	defaultPageFaultBytes = 2 * 1024 * 1024 * 1024
	defaultPageBytes      = 4096
)

// PageFaultConfig controls ForcePageFaults. The zero value touches a 2Gb buffer one
// 4096-byte page at a time. BufferBytes should be a multiple of the page size so the
// buffer can be discarded with page granularity.
type PageFaultConfig struct {
	BufferBytes int
	PageBytes   int
}

func (c PageFaultConfig) withDefaults() (int, int) {
	bufferBytes := c.BufferBytes
	if bufferBytes == 0 {
		bufferBytes = defaultPageFaultBytes
	}
	pageBytes := c.PageBytes
	if pageBytes == 0 {
		pageBytes = defaultPageBytes
	}

	return bufferBytes, pageBytes
}

// PageFaultReport summarizes one page-fault pass.
type PageFaultReport struct {
	// PagesTouched counts every page touch across both passes
	PagesTouched int
	// Discarded reports whether the pages were dropped between the passes. It is
	// false on platforms without madvise support, where only the first pass runs
	Discarded bool
}
