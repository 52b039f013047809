package dedup

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestDeduplicator_Run(t *testing.T) {
	data := resolvedTempDir(t)
	backup := resolvedTempDir(t)
	content := patternContent(5000, 0)
	original := writeTestFile(t, data, "photos/a.jpg", content)
	copied := writeTestFile(t, backup, "a.jpg", content)
	writeTestFile(t, data, "photos/b.jpg", patternContent(5000, 1))

	d, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	report := d.Run([]string{data, backup})

	if len(report.Roots) != 2 {
		t.Fatalf("Expected 2 roots, got %+v", report.Roots)
	}
	if report.Roots[0].Path != data || report.Roots[0].Files != 2 {
		t.Errorf("Unexpected first root %+v", report.Roots[0])
	}
	if report.Roots[1].Path != backup || report.Roots[1].Files != 1 {
		t.Errorf("Unexpected second root %+v", report.Roots[1])
	}

	if len(report.Groups) != 1 {
		t.Fatalf("Expected 1 group, got %+v", report.Groups)
	}
	files := report.Groups[0].Files
	if len(files) != 2 || !containsPath(files, original) || !containsPath(files, copied) {
		t.Errorf("Unexpected group members %v", files)
	}
	if report.LostSpace != 5000 {
		t.Errorf("Expected lost space 5000, got %d", report.LostSpace)
	}
	if report.HashAlgorithm != DefaultHashAlgorithm || report.Safe {
		t.Errorf("Unexpected run settings: hash=%s safe=%t", report.HashAlgorithm, report.Safe)
	}
	if report.Digests.Start == 0 {
		t.Error("Expected start digests to be computed")
	}
}

func containsPath(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}

func TestDeduplicator_Deterministic(t *testing.T) {
	dir := resolvedTempDir(t)
	for i, name := range []string{"x/1", "x/2", "y/1", "y/2", "z"} {
		writeTestFile(t, dir, name, patternContent(6000, byte(i%2)))
	}
	writeTestFile(t, dir, "big1", patternContent(20000, 9))
	writeTestFile(t, dir, "big2", patternContent(20000, 9))

	render := func(workers int) string {
		options := DefaultOptions()
		options.HashWorkers = workers
		d, err := New(options)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		var buf bytes.Buffer
		if err := WriteHumanReport(&buf, d.Run([]string{dir})); err != nil {
			t.Fatalf("WriteHumanReport failed: %v", err)
		}
		return buf.String()
	}

	first := render(1)
	if second := render(1); first != second {
		t.Errorf("Two runs differ:\n%s\n---\n%s", first, second)
	}
	if parallel := render(4); first != parallel {
		t.Errorf("Prefetching changed the report:\n%s\n---\n%s", first, parallel)
	}
	if !strings.Contains(first, "# Lost space: 37 Kb") {
		t.Errorf("Unexpected lost space in\n%s", first)
	}
}

func TestDeduplicator_UnresolvableRootSkipped(t *testing.T) {
	logBuf := captureLog(t)

	dir := resolvedTempDir(t)
	writeTestFile(t, dir, "a", patternContent(2000, 0))
	missing := filepath.Join(dir, "does-not-exist")

	d, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	report := d.Run([]string{missing, dir})

	if len(report.Roots) != 1 || report.Roots[0].Path != dir {
		t.Errorf("Expected only %s scanned, got %+v", dir, report.Roots)
	}
	if !strings.Contains(logBuf.String(), missing) {
		t.Errorf("Expected a warning naming %s, got %q", missing, logBuf.String())
	}
}

func TestDeduplicator_RelativeRoot(t *testing.T) {
	dir := resolvedTempDir(t)
	writeTestFile(t, dir, "a", patternContent(2000, 0))
	t.Chdir(dir)

	d, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	summary, ok := d.ScanRoot(".")
	if !ok {
		t.Fatal("ScanRoot(.) failed")
	}
	if summary.Path != dir || summary.Files != 1 {
		t.Errorf("Unexpected summary %+v", summary)
	}
}

func TestNew_InvalidAlgorithm(t *testing.T) {
	options := DefaultOptions()
	options.HashAlgorithm = "md5"
	if _, err := New(options); err == nil {
		t.Error("Expected an error for an unsupported algorithm")
	}
}

func TestOptionsFromConfig_Defaults(t *testing.T) {
	options, err := OptionsFromConfig(NewDefaultConfig(""))
	if err != nil {
		t.Fatalf("OptionsFromConfig failed: %v", err)
	}

	defaults := DefaultOptions()
	if options.ShowHidden != defaults.ShowHidden || options.Safe != defaults.Safe {
		t.Errorf("Flag defaults differ: %+v vs %+v", options, defaults)
	}
	if options.MinFileSize != defaults.MinFileSize || options.HashAlgorithm != defaults.HashAlgorithm {
		t.Errorf("Scan defaults differ: %+v vs %+v", options, defaults)
	}
	if options.HashWorkers != defaults.HashWorkers || options.ReadBuffer != defaults.ReadBuffer {
		t.Errorf("Performance defaults differ: %+v vs %+v", options, defaults)
	}
}
