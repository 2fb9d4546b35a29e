//go:build linux || darwin

package usage

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// statfsFunc is overridable for testing.
var statfsFunc = unix.Statfs

// FreeBytes returns the space available to unprivileged users on the
// filesystem holding path.
func FreeBytes(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := statfsFunc(path, &st); err != nil {
		return 0, fmt.Errorf("usage: statfs %s: %w", path, err)
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil
}
