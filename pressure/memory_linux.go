//go:build linux

package pressure

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

func defaultCeiling() (int, error) {
	var info unix.Sysinfo_t
	err := unix.Sysinfo(&info)
	if err != nil {
		return 0, errors.Wrap(err, "querying total system memory")
	}

	total := int(info.Totalram) * int(info.Unit)
	return total / 4 * 3, nil
}
