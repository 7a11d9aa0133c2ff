//go:build !linux

package pressure

import "github.com/cockroachdb/errors"

func defaultCeiling() (int, error) {
	return 0, errors.New("total system memory cannot be queried on this platform, set MemoryPressureConfig.CeilingBytes")
}
