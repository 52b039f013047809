package dedup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestReportWriter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	defer file.Close()

	// More lines than one writev call accepts
	var expected bytes.Buffer
	rw := newReportWriter(file)
	for i := 0; i < 2*iovMax+17; i++ {
		rw.Printf("# rm \"/data/file-%05d\"\n", i)
		fmt.Fprintf(&expected, "# rm \"/data/file-%05d\"\n", i)
	}
	rw.Append(nil)

	if err := rw.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if len(rw.lines) != 0 {
		t.Errorf("Expected empty buffer after flush, got %d lines", len(rw.lines))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read back report: %v", err)
	}
	if !bytes.Equal(got, expected.Bytes()) {
		t.Errorf("File content differs: got %d bytes, expected %d", len(got), expected.Len())
	}
}

func TestReportWriter_Writer(t *testing.T) {
	var buf bytes.Buffer
	rw := newReportWriter(&buf)
	rw.Printf("one\n")
	rw.Append([]byte("two\n"))
	rw.Printf("%s\n", "three")
	if err := rw.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if buf.String() != "one\ntwo\nthree\n" {
		t.Errorf("Unexpected output %q", buf.String())
	}

	// Flushing twice writes nothing new
	if err := rw.Flush(); err != nil {
		t.Fatalf("Second flush failed: %v", err)
	}
	if buf.String() != "one\ntwo\nthree\n" {
		t.Errorf("Second flush changed output to %q", buf.String())
	}
}

func TestWriteRemainder(t *testing.T) {
	chunk := [][]byte{[]byte("abc"), []byte("defg"), []byte("hi")}

	tests := []struct {
		skip     int
		expected string
	}{
		{0, "abcdefghi"},
		{2, "cdefghi"},
		{3, "defghi"},
		{5, "fghi"},
		{8, "i"},
		{9, ""},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		if err := writeRemainder(&buf, chunk, tt.skip); err != nil {
			t.Fatalf("writeRemainder failed: %v", err)
		}
		if buf.String() != tt.expected {
			t.Errorf("skip %d: expected %q, got %q", tt.skip, tt.expected, buf.String())
		}
	}
}
