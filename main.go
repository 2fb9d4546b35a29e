// resmon watches the resource consumption of an edge agent and keeps its
// message archive within a disk budget.
//
// Every poll interval it measures heap memory, process CPU and the size of
// the message archive, compares them against the configured limits, evicts
// the oldest archive pairs when the disk limit is exceeded, and publishes a
// usage snapshot to its cache directory.
//
// Usage:
//
//	resmon [flags]
//
// Flags:
//
//	-daemon             Run the sampler loop until interrupted
//	-once               Run a single cycle and exit
//	-status             Print the last published snapshot
//	-tui                Launch the live view
//	-health             Check daemon health status
//	-json               JSON output (with -status or -health)
//	-evict-bytes float  Evict archive pairs until this many bytes are freed
//	-config string      Path to configuration file (default: ~/.config/resmon/config.yaml)
//	-verbose            Enable debug logging
//	-version            Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gitlab.com/tinyland/lab/resmon/archive"
	"gitlab.com/tinyland/lab/resmon/cache"
	"gitlab.com/tinyland/lab/resmon/config"
	"gitlab.com/tinyland/lab/resmon/display/console"
	"gitlab.com/tinyland/lab/resmon/display/tui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, dispatches to the selected mode and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("resmon", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  = fs.String("config", "", "Path to configuration file (default: ~/.config/resmon/config.yaml)")
		runDaemon   = fs.Bool("daemon", false, "Run the sampler loop until interrupted")
		runOnce     = fs.Bool("once", false, "Run a single cycle and exit")
		showStatus  = fs.Bool("status", false, "Print the last published snapshot")
		runTUI      = fs.Bool("tui", false, "Launch the live view")
		runHealth   = fs.Bool("health", false, "Check daemon health status")
		jsonOutput  = fs.Bool("json", false, "JSON output (with -status or -health)")
		evictBytes  = fs.Float64("evict-bytes", 0, "Evict archive pairs until this many bytes are freed")
		verbose     = fs.Bool("verbose", false, "Enable debug logging")
		showVersion = fs.Bool("version", false, "Print version and exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "resmon %s (%s) built %s\n", version, commit, date)
		return 0
	}

	path := resolveConfigPath(*configPath)
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 1
	}

	logger, closeLog, err := setupLogger(cfg, *verbose, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to open log file: %v\n", err)
		return 1
	}
	defer closeLog()

	// Read-only modes never touch the PID file.
	switch {
	case *runHealth:
		store, err := cache.NewStore(cfg.Daemon.CacheDir, logger)
		if err != nil {
			fmt.Fprintf(stderr, "open cache: %v\n", err)
			return 1
		}
		return checkHealth(store, cfg.Interval(), *jsonOutput, stdout, stderr, time.Now())

	case *showStatus:
		store, err := cache.NewStore(cfg.Daemon.CacheDir, logger)
		if err != nil {
			fmt.Fprintf(stderr, "open cache: %v\n", err)
			return 1
		}
		width := 0
		if !*jsonOutput {
			console.Apply()
			width, _ = console.DetectSize()
		}
		return printStatus(store, 2*cfg.Interval(), *jsonOutput, width, stdout, stderr)

	case *runTUI:
		store, err := cache.NewStore(cfg.Daemon.CacheDir, logger)
		if err != nil {
			fmt.Fprintf(stderr, "open cache: %v\n", err)
			return 1
		}
		console.Apply()
		if err := tui.Run(tui.Options{Store: store, MaxAge: 2 * cfg.Interval()}); err != nil {
			fmt.Fprintf(stderr, "tui: %v\n", err)
			return 1
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *evictBytes > 0:
		res, err := archive.NewEvictor(cfg.ArchiveDir(), logger).Evict(ctx, *evictBytes)
		printEviction(res, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "eviction failed: %v\n", err)
			return 1
		}
		return 0

	case *runOnce, *runDaemon:
		d, err := newDaemon(cfg, path, logger)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
		if *runOnce {
			if err := d.runOnce(ctx); err != nil {
				fmt.Fprintf(stderr, "cycle failed: %v\n", err)
				return 1
			}
			return 0
		}
		if err := d.run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(stderr, "daemon: %v\n", err)
			return 1
		}
		return 0
	}

	fs.Usage()
	return 2
}

// resolveConfigPath returns the flag value or the default location under
// the user's config directory.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "resmon", "config.yaml")
}

// setupLogger builds a text logger writing to the configured log file, or to
// fallback when none is set. The returned func closes the file.
func setupLogger(cfg *config.Config, verbose bool, fallback io.Writer) (*slog.Logger, func(), error) {
	level := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}

	out := fallback
	closeFn := func() {}
	if cfg.Daemon.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Daemon.LogFile), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(cfg.Daemon.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { f.Close() }
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closeFn, nil
}
