package dedup

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleReport() *Report {
	return &Report{
		Roots: []RootSummary{
			{Path: "/data", Files: 3},
			{Path: "/backup", Files: 0},
		},
		MemoryUsageMb: 0,
		HashAlgorithm: "sha1",
		Groups: []DuplicateGroup{
			{Size: 5000, Files: []string{"/backup/a", "/data/a"}, Count: 2, Lost: 5000},
			{Size: 8 * 1024 * 1024, Files: []string{"/data/x", "/data/y", "/data/z"}, Count: 3, Lost: 16 * 1024 * 1024},
		},
		LostSpace: 5000 + 16*1024*1024,
	}
}

func TestWriteHumanReport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHumanReport(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteHumanReport failed: %v", err)
	}

	expected := `# /data (3 files)
# /backup (0 files)
# Memory usage: 0 Mb

# Same files (4 Kb)
# rm "/backup/a"
# rm "/data/a"

# Same files (8 Mb)
# rm "/data/x"
# rm "/data/y"
# rm "/data/z"

# Lost space: 16 Mb
`
	if buf.String() != expected {
		t.Errorf("Unexpected report:\n%s\nexpected:\n%s", buf.String(), expected)
	}
}

func TestWriteHumanReport_NoGroups(t *testing.T) {
	var buf bytes.Buffer
	report := &Report{Roots: []RootSummary{{Path: "/empty", Files: 0}}}
	if err := WriteHumanReport(&buf, report); err != nil {
		t.Fatalf("WriteHumanReport failed: %v", err)
	}

	expected := "# /empty (0 files)\n# Memory usage: 0 Mb\n\n# Lost space: 0 bytes\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestWriteJSONReport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, sampleReport(), FormatJSON); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Report is not valid JSON: %v\n%s", err, buf.String())
	}

	if len(decoded.Roots) != 2 || decoded.Roots[0].Path != "/data" || decoded.Roots[0].Files != 3 {
		t.Errorf("Unexpected roots %+v", decoded.Roots)
	}
	if len(decoded.Groups) != 2 || decoded.Groups[1].Count != 3 {
		t.Errorf("Unexpected groups %+v", decoded.Groups)
	}
	if decoded.LostSpace != 5000+16*1024*1024 {
		t.Errorf("Unexpected lost space %d", decoded.LostSpace)
	}
	if decoded.HashAlgorithm != "sha1" {
		t.Errorf("Unexpected hash %q", decoded.HashAlgorithm)
	}
}

func TestWriteJSONReport_EmptyListsAreArrays(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONReport(&buf, &Report{}); err != nil {
		t.Fatalf("WriteJSONReport failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"groups": []`) || !strings.Contains(buf.String(), `"roots": []`) {
		t.Errorf("Expected empty arrays rather than null:\n%s", buf.String())
	}
}

func TestWriteReport_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, sampleReport(), "xml"); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}
