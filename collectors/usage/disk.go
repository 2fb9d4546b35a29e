package usage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// maxWalkDepth bounds directory recursion when symlinks form long chains.
const maxWalkDepth = 64

// DiskGauge reports the recursive size of a directory tree, in bytes.
type DiskGauge struct {
	root   string
	logger *slog.Logger
}

// NewDiskGauge creates a DiskGauge over root.
// If logger is nil, a no-op logger is used.
func NewDiskGauge(root string, logger *slog.Logger) *DiskGauge {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DiskGauge{root: root, logger: logger}
}

// Name returns the gauge identifier.
func (g *DiskGauge) Name() string { return "disk" }

// Root returns the measured directory.
func (g *DiskGauge) Root() string { return g.root }

// Measure returns the size of the tree. On partial failure the size of
// everything that could be read is returned together with the error.
func (g *DiskGauge) Measure(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := DirectorySize(g.root)
	if err != nil {
		g.logger.Debug("directory size incomplete", "path", g.root, "bytes", n, "error", err)
	}
	return float64(n), err
}

// DirectorySize sums the sizes of all regular files under root.
// A missing root is 0 bytes and a root that is a regular file is its own
// size. Symlinks are followed; each real directory is visited once and
// recursion stops at maxWalkDepth, so cyclic links terminate.
func DirectorySize(root string) (int64, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("usage: stat %s: %w", root, err)
	}
	if !info.IsDir() {
		if info.Mode().IsRegular() {
			return info.Size(), nil
		}
		return 0, nil
	}

	w := &sizeWalker{visited: make(map[string]struct{})}
	total := w.walk(root, 0)
	return total, errors.Join(w.errs...)
}

type sizeWalker struct {
	visited map[string]struct{}
	errs    []error
}

func (w *sizeWalker) walk(dir string, depth int) int64 {
	if depth > maxWalkDepth {
		w.errs = append(w.errs, fmt.Errorf("usage: %s: depth limit %d reached", dir, maxWalkDepth))
		return 0
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		w.errs = append(w.errs, fmt.Errorf("usage: resolve %s: %w", dir, err))
		return 0
	}
	if _, seen := w.visited[resolved]; seen {
		return 0
	}
	w.visited[resolved] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.errs = append(w.errs, fmt.Errorf("usage: read dir %s: %w", dir, err))
		return 0
	}

	var total int64
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil {
			// Dangling symlinks and files removed mid-walk count as nothing.
			if !errors.Is(err, fs.ErrNotExist) {
				w.errs = append(w.errs, fmt.Errorf("usage: stat %s: %w", path, err))
			}
			continue
		}
		switch {
		case info.Mode().IsRegular():
			total += info.Size()
		case info.IsDir():
			total += w.walk(path, depth+1)
		}
	}
	return total
}
