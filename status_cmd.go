package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gitlab.com/tinyland/lab/resmon/archive"
	"gitlab.com/tinyland/lab/resmon/cache"
	"gitlab.com/tinyland/lab/resmon/display/widgets"
	"gitlab.com/tinyland/lab/resmon/status"
)

// printStatus renders the last published snapshot. It returns the exit
// code: 0 when a snapshot was shown, 1 when none exists.
func printStatus(store *cache.Store, maxAge time.Duration, jsonOutput bool, width int, stdout, stderr io.Writer) int {
	snap, fresh, err := status.LoadSnapshot(store, maxAge)
	if err != nil {
		fmt.Fprintf(stderr, "read snapshot: %v\n", err)
		return 1
	}
	if snap == nil {
		fmt.Fprintln(stderr, "no snapshot published yet (is the daemon running?)")
		return 1
	}

	if jsonOutput {
		output := struct {
			Snapshot any           `json:"snapshot"`
			Report   status.Report `json:"report"`
			Stale    bool          `json:"stale"`
		}{snap, status.Evaluate(snap), !fresh}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(stdout, string(data))
		return 0
	}

	fmt.Fprintln(stdout, widgets.RenderPanel(snap, widgets.PanelConfig{Width: width}))
	if !fresh {
		fmt.Fprintf(stdout, "snapshot is stale (older than %s)\n", maxAge)
	}
	return 0
}

// printEviction summarises a manual eviction run.
func printEviction(res archive.Result, w io.Writer) {
	fmt.Fprintf(w, "requested %s, freed %s across %d pairs\n",
		widgets.FormatBytes(res.Requested), widgets.FormatBytes(float64(res.Freed)), len(res.Deleted))
	for _, f := range res.Failures {
		fmt.Fprintf(w, "  failed to delete %s: %v\n", f.Path, f.Err)
	}
}
