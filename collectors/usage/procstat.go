package usage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// parseProcessTicks extracts utime+stime (fields 14 and 15) from the
// contents of /proc/<pid>/stat. The comm field may contain spaces and
// parentheses, so fields are counted from the last ')'.
func parseProcessTicks(r io.Reader) (uint64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("usage: read process stat: %w", err)
	}
	line := string(data)
	idx := strings.LastIndexByte(line, ')')
	if idx < 0 {
		return 0, fmt.Errorf("usage: process stat: missing comm terminator")
	}
	// After ')' the first field is state (field 3), so utime (field 14) is
	// at offset 11 and stime (field 15) at offset 12.
	fields := strings.Fields(line[idx+1:])
	if len(fields) < 13 {
		return 0, fmt.Errorf("usage: process stat: %d fields after comm, want at least 13", len(fields))
	}
	utime, err := strconv.ParseUint(fields[11], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("usage: parse utime: %w", err)
	}
	stime, err := strconv.ParseUint(fields[12], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("usage: parse stime: %w", err)
	}
	return utime + stime, nil
}

// parseTotalTicks sums every numeric field of the aggregate "cpu" line of
// /proc/stat.
func parseTotalTicks(r io.Reader) (uint64, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "cpu" {
			continue
		}
		var total uint64
		for _, f := range fields[1:] {
			val, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				continue
			}
			total += val
		}
		return total, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("usage: read /proc/stat: %w", err)
	}
	return 0, fmt.Errorf("usage: cpu line not found in /proc/stat")
}
