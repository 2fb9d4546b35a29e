//go:build !linux && !darwin

package usage

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// FreeBytes returns the free space on the filesystem holding path.
func FreeBytes(path string) (uint64, error) {
	u, err := disk.Usage(path)
	if err != nil {
		return 0, fmt.Errorf("usage: disk usage %s: %w", path, err)
	}
	return u.Free, nil
}
