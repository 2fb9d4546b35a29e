// Package cache keeps the daemon's published state as JSON files so that
// other invocations (status, health, the live view) can read it without
// talking to the daemon.
package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store is a flat directory of JSON documents, one per key:
//
//	~/.cache/resmon/
//	  resources.json
//	  health.json
type Store struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a store at dir, creating the directory with 0700
// permissions if needed. The logger may be nil.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("cache: create directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{dir: dir, logger: logger, now: time.Now}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file backing key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the document for key and reports whether it was written within
// maxAge. A missing key returns nil, false, nil. A file that is not valid
// JSON is removed and treated as missing.
func (s *Store) Get(key string, maxAge time.Duration) (json.RawMessage, bool, error) {
	path := s.Path(key)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: stat %s: %w", key, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("cache: read %s: %w", key, err)
	}

	if !json.Valid(data) {
		s.logger.Warn("cache: removing corrupted entry", "key", key)
		_ = os.Remove(path)
		return nil, false, nil
	}

	fresh := s.now().Sub(info.ModTime()) < maxAge
	return json.RawMessage(data), fresh, nil
}

// Set encodes v as indented JSON and replaces the document for key.
func (s *Store) Set(key string, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	if err := WriteFileAtomic(s.Path(key), encoded, 0600); err != nil {
		return fmt.Errorf("cache: %s: %w", key, err)
	}
	return nil
}

// GetTyped reads key into a T. A missing key returns nil. An entry that no
// longer decodes into T is removed and treated as missing.
func GetTyped[T any](s *Store, key string, maxAge time.Duration) (*T, bool, error) {
	raw, fresh, err := s.Get(key, maxAge)
	if err != nil || raw == nil {
		return nil, false, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.Warn("cache: removing undecodable entry", "key", key, "error", err)
		_ = os.Remove(s.Path(key))
		return nil, false, nil
	}
	return &out, fresh, nil
}

// SetTyped stores v under key.
func SetTyped[T any](s *Store, key string, v *T) error {
	return s.Set(key, v)
}

// Age returns the time since key was last written, or 0 if it is missing.
func (s *Store) Age(key string) time.Duration {
	info, err := os.Stat(s.Path(key))
	if err != nil {
		return 0
	}
	return s.now().Sub(info.ModTime())
}

// Keys lists stored keys, skipping in-flight temp files.
func (s *Store) Keys() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".tmp-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	if err := os.Remove(s.Path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cache: remove %s: %w", key, err)
	}
	return nil
}

// WriteFileAtomic writes data to a temp file beside path and renames it into
// place, so readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	ok := false
	defer func() {
		if !ok {
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp: %w", err)
	}

	ok = true
	return nil
}
