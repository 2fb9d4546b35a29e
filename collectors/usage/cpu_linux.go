//go:build linux

package usage

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Overridable file openers for testing.
var (
	openProcStat = func() (io.ReadCloser, error) {
		return os.Open("/proc/stat")
	}
	openPIDStat = func(pid int) (io.ReadCloser, error) {
		return os.Open(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	}
)

// platformTickReaders reads process and system ticks from procfs.
func platformTickReaders(pid int) (TickReader, TickReader) {
	proc := func() (uint64, error) {
		f, err := openPIDStat(pid)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		return parseProcessTicks(f)
	}
	total := func() (uint64, error) {
		f, err := openProcStat()
		if err != nil {
			return 0, err
		}
		defer f.Close()
		return parseTotalTicks(f)
	}
	return proc, total
}
