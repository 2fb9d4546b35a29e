package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/resmon/collectors"
	"gitlab.com/tinyland/lab/resmon/config"
	"gitlab.com/tinyland/lab/resmon/status"
)

// writeTestConfig writes a config whose cache and agent directories live in
// a temporary directory and returns its path.
func writeTestConfig(t *testing.T) (string, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Daemon.CacheDir = filepath.Join(dir, "cache")
	cfg.Agent.DiskDirectory = filepath.Join(dir, "agent")

	path := filepath.Join(dir, "config.yaml")
	if err := config.SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}
	return path, cfg
}

func TestResolveConfigPath(t *testing.T) {
	if got := resolveConfigPath("/etc/resmon.yaml"); got != "/etc/resmon.yaml" {
		t.Errorf("explicit path = %q", got)
	}

	t.Setenv("HOME", "/home/edge")
	want := filepath.Join("/home/edge", ".config", "resmon", "config.yaml")
	if got := resolveConfigPath(""); got != want {
		t.Errorf("default path = %q, want %q", got, want)
	}
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		verbose   bool
		wantDebug bool
	}{
		{"info", "info", false, false},
		{"verbose overrides", "warn", true, true},
		{"debug from config", "debug", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Daemon.LogLevel = tt.level

			var buf bytes.Buffer
			logger, closeLog, err := setupLogger(cfg, tt.verbose, &buf)
			if err != nil {
				t.Fatalf("setupLogger() error: %v", err)
			}
			defer closeLog()

			if got := logger.Enabled(context.Background(), slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestSetupLogger_File(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Daemon.LogFile = filepath.Join(t.TempDir(), "logs", "resmon.log")

	var fallback bytes.Buffer
	logger, closeLog, err := setupLogger(cfg, false, &fallback)
	if err != nil {
		t.Fatalf("setupLogger() error: %v", err)
	}
	logger.Info("hello", "path", "/x")
	closeLog()

	data, err := os.ReadFile(cfg.Daemon.LogFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "msg=hello") {
		t.Errorf("log file = %q", data)
	}
	if fallback.Len() != 0 {
		t.Errorf("fallback should be unused, got %q", fallback.String())
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "resmon "+version) {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-no-such-flag"}, &stdout, &stderr); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestRun_NoMode(t *testing.T) {
	path, _ := writeTestConfig(t)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", path}, &stdout, &stderr); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("daemon:\n  poll_interval: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", path, "-health"}, &stdout, &stderr); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "invalid config") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_StatusJSON(t *testing.T) {
	path, cfg := writeTestConfig(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", path, "-status", "-json"}, &stdout, &stderr); code != 1 {
		t.Errorf("exit code before any publish = %d, want 1", code)
	}

	d, err := newDaemon(cfg, path, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatal(err)
	}
	d.reporter.Publish(*collectors.MockViolatingSnapshot())

	stdout.Reset()
	if code := run([]string{"-config", path, "-status", "-json"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr.String())
	}

	var out struct {
		Snapshot collectors.UsageSnapshot `json:"snapshot"`
		Stale    bool                     `json:"stale"`
		Report   struct {
			Overall string `json:"overall"`
		} `json:"report"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal %q: %v", stdout.String(), err)
	}
	if !out.Snapshot.DiskViolation || out.Stale || out.Report.Overall != "critical" {
		t.Errorf("status output = %+v", out)
	}
}

func TestRun_Once(t *testing.T) {
	path, cfg := writeTestConfig(t)
	if err := os.MkdirAll(cfg.ArchiveDir(), 0o755); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", path, "-once"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr.String())
	}

	d, err := newDaemon(cfg, path, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatal(err)
	}
	snap, _, err := status.LoadSnapshot(d.store, 0)
	if err != nil || snap == nil {
		t.Fatalf("no snapshot published: %v", err)
	}
	if snap.Limits != cfg.LimitSet() {
		t.Errorf("snapshot limits = %+v, want %+v", snap.Limits, cfg.LimitSet())
	}
}

func TestRun_EvictBytes(t *testing.T) {
	path, cfg := writeTestConfig(t)
	if err := os.MkdirAll(cfg.ArchiveDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	writePair(t, cfg.ArchiveDir(), "0001", 500)
	writePair(t, cfg.ArchiveDir(), "0002", 500)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", path, "-evict-bytes", "100"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "across 1 pairs") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(cfg.ArchiveDir(), "msg_0002.idx")); err != nil {
		t.Error("newer pair should survive")
	}
}
