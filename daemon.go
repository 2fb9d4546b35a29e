package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"gitlab.com/tinyland/lab/resmon/archive"
	"gitlab.com/tinyland/lab/resmon/cache"
	"gitlab.com/tinyland/lab/resmon/collectors/usage"
	"gitlab.com/tinyland/lab/resmon/config"
	"gitlab.com/tinyland/lab/resmon/monitor"
	"gitlab.com/tinyland/lab/resmon/status"
)

// daemon wires the sampler loop to its collaborators: gauges, the archive
// evictor, the cache-backed status sink and the config watcher.
type daemon struct {
	config     *config.Config
	configPath string
	logger     *slog.Logger
	store      *cache.Store
	reporter   *status.Reporter
	limits     *monitor.Limits
	evictor    *archive.Evictor
	monitor    *monitor.Monitor
	pidFile    string
}

// newDaemon builds the daemon from a validated configuration. The limits
// are applied here, before the loop's first cycle.
func newDaemon(cfg *config.Config, configPath string, logger *slog.Logger) (*daemon, error) {
	store, err := cache.NewStore(cfg.Daemon.CacheDir, logger)
	if err != nil {
		return nil, fmt.Errorf("daemon: create cache store: %w", err)
	}

	limits := monitor.NewLimits(cfg.LimitSet())
	logLimits(logger, "limits applied", cfg)

	archiveDir := cfg.ArchiveDir()
	evictor := archive.NewEvictor(archiveDir, logger)
	reporter := status.NewReporter(store, logger)

	mon, err := monitor.New(monitor.Options{
		Interval:  cfg.Interval(),
		Memory:    usage.NewMemoryGauge(),
		CPU:       usage.NewCPUGauge(logger),
		Disk:      usage.NewDiskGauge(archiveDir, logger),
		FreeSpace: func() (uint64, error) { return usage.FreeBytes(archiveDir) },
		Limits:    limits,
		Sink:      reporter,
		Evictor:   evictor,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("daemon: %w", err)
	}

	return &daemon{
		config:     cfg,
		configPath: configPath,
		logger:     logger,
		store:      store,
		reporter:   reporter,
		limits:     limits,
		evictor:    evictor,
		monitor:    mon,
		pidFile:    filepath.Join(cfg.Daemon.CacheDir, "resmon.pid"),
	}, nil
}

func logLimits(logger *slog.Logger, msg string, cfg *config.Config) {
	logger.Info(msg,
		"disk_limit_gb", cfg.Limits.DiskLimitGB,
		"cpu_limit_percent", cfg.Limits.CPULimitPercent,
		"memory_limit_mb", cfg.Limits.MemoryLimitMB,
		"archive_dir", cfg.ArchiveDir(),
	)
}

// applyConfig swaps in the limits of a reloaded configuration. Other
// settings only take effect on restart.
func (d *daemon) applyConfig(cfg *config.Config) {
	d.limits.Store(cfg.LimitSet())
	logLimits(d.logger, "limits updated", cfg)
	if cfg.Interval() != d.config.Interval() || cfg.ArchiveDir() != d.config.ArchiveDir() {
		d.logger.Warn("poll interval and archive directory changes require a restart",
			"poll_interval", cfg.Daemon.PollInterval,
			"archive_dir", cfg.ArchiveDir(),
		)
	}
}

// writePIDFile writes the current process PID to {CacheDir}/resmon.pid.
func (d *daemon) writePIDFile() error {
	pid := os.Getpid()
	if err := cache.WriteFileAtomic(d.pidFile, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	d.logger.Info("wrote PID file", "path", d.pidFile, "pid", pid)
	return nil
}

// removePIDFile removes the PID file on shutdown.
func (d *daemon) removePIDFile() {
	if err := os.Remove(d.pidFile); err != nil && !os.IsNotExist(err) {
		d.logger.Error("failed to remove PID file", "path", d.pidFile, "error", err)
		return
	}
	d.logger.Info("removed PID file", "path", d.pidFile)
}

// isRunning reports whether the PID file names a live process. Corrupt or
// stale PID files are removed.
func (d *daemon) isRunning() (bool, int) {
	data, err := os.ReadFile(d.pidFile)
	if err != nil {
		return false, 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		d.logger.Warn("corrupt PID file, removing", "path", d.pidFile, "content", string(data))
		os.Remove(d.pidFile)
		return false, 0
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		os.Remove(d.pidFile)
		return false, 0
	}
	if err := process.Signal(syscall.Signal(0)); err != nil {
		d.logger.Warn("stale PID file, removing", "path", d.pidFile, "pid", pid)
		os.Remove(d.pidFile)
		return false, 0
	}

	return true, pid
}

// run holds the PID file, watches the config for limit changes, and runs
// the sampler loop until ctx is cancelled.
func (d *daemon) run(ctx context.Context) error {
	if running, pid := d.isRunning(); running {
		return fmt.Errorf("daemon already running (PID %d)", pid)
	}
	if err := d.writePIDFile(); err != nil {
		return err
	}
	defer d.removePIDFile()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if d.configPath != "" {
		w := config.NewWatcher(d.configPath, d.applyConfig, d.logger)
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				d.logger.Warn("config watcher stopped", "error", err)
			}
		}()
		go d.reloadOnHangup(ctx, w)
	}

	err := d.monitor.Run(ctx)
	d.logger.Info("daemon shutting down gracefully")
	return err
}

// reloadOnHangup reloads the config on every SIGHUP.
func (d *daemon) reloadOnHangup(ctx context.Context, w *config.Watcher) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := w.Reload(); err != nil {
				d.logger.Warn("config reload failed, keeping previous limits", "error", err)
			}
		}
	}
}

// runOnce runs a single cycle without the initial sleep.
func (d *daemon) runOnce(ctx context.Context) error {
	_, err := d.monitor.RunOnce(ctx)
	return err
}
