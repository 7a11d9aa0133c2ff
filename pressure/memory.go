package pressure

import "github.com/cockroachdb/errors"

const (
	defaultPressureStartBytes = 1024 * 1024 * 1024
	defaultPressureStepBytes  = 512 * 1024 * 1024
)

// MemoryPressureConfig controls ConsumeMemory. The zero value starts with a 1Gb buffer
// and adds a further 512Mb buffer per step. CeilingBytes can be left zero on platforms
// where total system memory can be queried; the ceiling then defaults to three
// quarters of it.
type MemoryPressureConfig struct {
	StartBytes   int
	StepBytes    int
	CeilingBytes int
}

// ConsumeMemory commits memory until it reaches the configured ceiling: it allocates a
// starting buffer, touches every page so the OS commits it, and keeps allocating
// buffers that grow by the step size while holding on to everything so far. A failed
// allocation in Go aborts the process rather than reporting nil, so the ceiling stands
// in for observing exhaustion. It returns the total number of bytes committed.
func ConsumeMemory(config MemoryPressureConfig) (int, error) {
	startBytes := config.StartBytes
	if startBytes == 0 {
		startBytes = defaultPressureStartBytes
	}
	stepBytes := config.StepBytes
	if stepBytes == 0 {
		stepBytes = defaultPressureStepBytes
	}
	ceilingBytes := config.CeilingBytes
	if ceilingBytes == 0 {
		var err error
		ceilingBytes, err = defaultCeiling()
		if err != nil {
			return 0, err
		}
	}
	if startBytes > ceilingBytes {
		return 0, errors.Newf("the starting size %d is already beyond the %d-byte ceiling", startBytes, ceilingBytes)
	}

	var held [][]byte
	committed := 0
	size := startBytes
	for committed+size <= ceilingBytes {
		data := make([]byte, size)
		for i := 0; i < len(data); i += defaultPageBytes {
			data[i] = 1
		}

		held = append(held, data)
		committed += size
		size += stepBytes
	}

	return committed, nil
}
