package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gitlab.com/tinyland/lab/resmon/cache"
	"gitlab.com/tinyland/lab/resmon/status"
)

// checkHealth reads the health record and reports whether the daemon is
// healthy, meaning it published within 2x the poll interval. It returns the
// process exit code: 0 for healthy, 1 for stale or missing.
func checkHealth(store *cache.Store, pollInterval time.Duration, jsonOutput bool, stdout, stderr io.Writer, now time.Time) int {
	h, err := status.LoadHealth(store)
	if err != nil || h == nil {
		if jsonOutput {
			fmt.Fprintln(stdout, `{"status":"missing","error":"no health file found"}`)
		} else {
			fmt.Fprintln(stderr, "daemon not running (no health file)")
		}
		return 1
	}

	staleThreshold := 2 * pollInterval
	age := now.Sub(h.LastPoll)
	isStale := age > staleThreshold

	if jsonOutput {
		output := map[string]any{
			"status":     h.Status,
			"level":      h.Level,
			"last_poll":  h.LastPoll.Format(time.RFC3339),
			"age":        age.Round(time.Second).String(),
			"stale":      isStale,
			"violations": h.Violations,
		}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(stdout, string(data))
	} else if isStale {
		fmt.Fprintf(stderr, "daemon stale (last poll %s ago, threshold %s)\n", age.Round(time.Second), staleThreshold)
	} else {
		fmt.Fprintf(stdout, "daemon healthy (last poll %s ago, level %s)\n", age.Round(time.Second), h.Level)
		for _, v := range h.Violations {
			fmt.Fprintf(stdout, "  %s: over limit\n", v)
		}
	}

	if isStale {
		return 1
	}
	return 0
}
