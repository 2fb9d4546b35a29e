//go:build !linux

package usage

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/process"
)

// ticksPerSecond converts gopsutil's second-based times to USER_HZ ticks so
// both platforms feed the same integer counters into cpuPercent.
const ticksPerSecond = 100

// platformTickReaders reads process and system times through gopsutil.
func platformTickReaders(pid int) (TickReader, TickReader) {
	proc := func() (uint64, error) {
		p, err := process.NewProcess(int32(pid))
		if err != nil {
			return 0, fmt.Errorf("usage: open process %d: %w", pid, err)
		}
		t, err := p.Times()
		if err != nil {
			return 0, fmt.Errorf("usage: process times: %w", err)
		}
		return toTicks(t.User + t.System), nil
	}
	total := func() (uint64, error) {
		times, err := cpu.Times(false)
		if err != nil {
			return 0, fmt.Errorf("usage: cpu times: %w", err)
		}
		if len(times) == 0 {
			return 0, fmt.Errorf("usage: cpu times: no aggregate entry")
		}
		t := times[0]
		return toTicks(t.User + t.Nice + t.System + t.Idle + t.Iowait + t.Irq + t.Softirq + t.Steal), nil
	}
	return proc, total
}

func toTicks(seconds float64) uint64 {
	if seconds <= 0 {
		return 0
	}
	return uint64(seconds * ticksPerSecond)
}
