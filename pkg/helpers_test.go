package dedup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// patternContent returns size bytes derived from seed
func patternContent(size int, seed byte) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i%251) ^ seed
	}
	return data
}

// writeTestFile writes data to dir/name, creating parent directories
func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// resolvedTempDir returns a temp dir with symlinks resolved, as ScanRoot reports it
func resolvedTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	return dir
}

// captureLog redirects warnings and verbose output for the duration of the test
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() { SetLogOutput(nil) })
	return &buf
}

// scanTestDir runs a scan of dir with options and returns the run
func scanTestDir(t *testing.T, dir string, options Options) *Deduplicator {
	t.Helper()
	d, err := New(options)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := d.ScanRoot(dir); !ok {
		t.Fatalf("ScanRoot(%s) failed", dir)
	}
	return d
}

// recordByName returns the registry record for path
func recordByName(t *testing.T, d *Deduplicator, path string) *FileRecord {
	t.Helper()
	for i := 0; i < d.Registry().Len(); i++ {
		rec := d.Registry().Get(i)
		if d.Arena().Resolve(rec.Name) == path {
			return rec
		}
	}
	t.Fatalf("No record for %s", path)
	return nil
}
