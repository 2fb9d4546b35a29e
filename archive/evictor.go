package archive

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"
)

// Failure records a file the filesystem refused to delete.
type Failure struct {
	Path string
	Err  error
}

// Result summarises one eviction run.
type Result struct {
	// Requested is the amount of space the caller asked for.
	Requested float64
	// Freed is the accounted size of the processed files. Files whose
	// removal failed are still counted.
	Freed int64
	// Deleted lists the processed pairs, oldest first.
	Deleted []Pair
	// Failures lists refused deletions.
	Failures []Failure
	// FinishedAt records when the run completed.
	FinishedAt time.Time
}

// Evictor reclaims archive space by deleting the oldest pairs first.
type Evictor struct {
	dir    string
	logger *slog.Logger

	// Overridable filesystem operations for testing.
	stat   func(name string) (os.FileInfo, error)
	remove func(name string) error
	now    func() time.Time
}

// NewEvictor creates an Evictor over the archive directory dir.
// If logger is nil, a no-op logger is used.
func NewEvictor(dir string, logger *slog.Logger) *Evictor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Evictor{
		dir:    dir,
		logger: logger,
		stat:   os.Stat,
		remove: os.Remove,
		now:    time.Now,
	}
}

// Dir returns the archive directory.
func (e *Evictor) Dir() string { return e.dir }

// Evict deletes the shortest oldest-first run of pairs whose combined size
// reaches targetFree, or every pair if the archive is smaller. A
// non-positive targetFree deletes nothing. A missing data file counts as
// zero bytes. Refused deletions are logged and recorded in the result but
// do not stop the run; the only errors returned are an unreadable archive
// directory and cancellation of ctx.
func (e *Evictor) Evict(ctx context.Context, targetFree float64) (res Result, err error) {
	res.Requested = targetFree
	defer func() { res.FinishedAt = e.now() }()

	if targetFree <= 0 {
		return res, nil
	}

	pairs, err := ListPairs(e.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.logger.Debug("archive directory missing, nothing to evict", "path", e.dir)
			return res, nil
		}
		return res, err
	}

	remaining := targetFree
	for _, p := range pairs {
		if remaining <= 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		freed := e.deleteFile(p.IndexPath, &res)
		freed += e.deleteFile(p.DataPath, &res)

		remaining -= float64(freed)
		res.Freed += freed
		res.Deleted = append(res.Deleted, p)
	}

	e.logger.Info("removed old archives",
		"pairs", len(res.Deleted),
		"freed_bytes", res.Freed,
		"target_free", targetFree,
		"failures", len(res.Failures),
	)
	return res, nil
}

// deleteFile removes one half of a pair and returns its size. An absent
// file contributes zero and is not removed.
func (e *Evictor) deleteFile(path string, res *Result) int64 {
	info, err := e.stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn("archive stat failed", "path", path, "error", err)
			res.Failures = append(res.Failures, Failure{Path: path, Err: err})
		}
		return 0
	}

	if err := e.remove(path); err != nil {
		e.logger.Warn("archive delete failed", "path", path, "error", err)
		res.Failures = append(res.Failures, Failure{Path: path, Err: err})
	}
	return info.Size()
}
