package usage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeSized(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDirectorySize(t *testing.T) {
	t.Run("non-existent path", func(t *testing.T) {
		n, err := DirectorySize(filepath.Join(t.TempDir(), "missing"))
		if err != nil || n != 0 {
			t.Errorf("DirectorySize = %d, %v; want 0, nil", n, err)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		n, err := DirectorySize(t.TempDir())
		if err != nil || n != 0 {
			t.Errorf("DirectorySize = %d, %v; want 0, nil", n, err)
		}
	})

	t.Run("lone file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "msg.iomsg")
		writeSized(t, path, 1234)
		n, err := DirectorySize(path)
		if err != nil || n != 1234 {
			t.Errorf("DirectorySize = %d, %v; want 1234, nil", n, err)
		}
	})

	t.Run("nested directories", func(t *testing.T) {
		root := t.TempDir()
		writeSized(t, filepath.Join(root, "a.idx"), 10)
		writeSized(t, filepath.Join(root, "sub", "b.iomsg"), 200)
		writeSized(t, filepath.Join(root, "sub", "deeper", "c.iomsg"), 3000)
		writeSized(t, filepath.Join(root, "x", "y", "z", "w", "v", "d.idx"), 40000)
		if err := os.MkdirAll(filepath.Join(root, "empty", "dir"), 0o755); err != nil {
			t.Fatal(err)
		}

		n, err := DirectorySize(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 43210 {
			t.Errorf("DirectorySize = %d, want 43210", n)
		}
	})
}

func TestDirectorySizeSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeSized(t, filepath.Join(root, "sub", "f.iomsg"), 100)
	if err := os.Symlink(root, filepath.Join(root, "sub", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "nowhere"), filepath.Join(root, "dangling")); err != nil {
		t.Fatal(err)
	}

	n, err := DirectorySize(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 100 {
		t.Errorf("DirectorySize = %d, want 100 (cycle counted once)", n)
	}
}

func TestDiskGauge_Measure(t *testing.T) {
	root := t.TempDir()
	writeSized(t, filepath.Join(root, "a_1.idx"), 16)
	writeSized(t, filepath.Join(root, "a_1.iomsg"), 512)

	g := NewDiskGauge(root, nil)
	if g.Name() != "disk" || g.Root() != root {
		t.Errorf("unexpected gauge identity %q %q", g.Name(), g.Root())
	}
	got, err := g.Measure(context.Background())
	if err != nil {
		t.Fatalf("Measure returned error: %v", err)
	}
	if got != 528 {
		t.Errorf("Measure = %f, want 528", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Measure(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}
