package dedup

import (
	"fmt"
	"io"
	"os"
	"syscall"
	"unsafe"

	"github.com/google/vectorio"
)

// iovMax is the largest iovec batch handed to one writev call (golang/go#58623)
const iovMax = 1024

// reportWriter buffers report lines and writes them in one pass.
// On an *os.File the lines go out through writev without being joined.
type reportWriter struct {
	dest  io.Writer
	lines [][]byte
}

func newReportWriter(dest io.Writer) *reportWriter {
	return &reportWriter{dest: dest}
}

// Printf appends one formatted chunk
func (rw *reportWriter) Printf(format string, args ...interface{}) {
	rw.Append([]byte(fmt.Sprintf(format, args...)))
}

// Append queues line without copying it; empty lines are dropped
func (rw *reportWriter) Append(line []byte) {
	if len(line) == 0 {
		return
	}
	rw.lines = append(rw.lines, line)
}

// Flush writes every queued line and empties the buffer
func (rw *reportWriter) Flush() error {
	defer func() {
		rw.lines = rw.lines[:0]
	}()

	if file, ok := rw.dest.(*os.File); ok {
		return writeLinesv(file, rw.lines)
	}

	for _, line := range rw.lines {
		if _, err := rw.dest.Write(line); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

// writeLinesv writes lines to file with writev, iovMax lines per call
func writeLinesv(file *os.File, lines [][]byte) error {
	for offset := 0; offset < len(lines); offset += iovMax {
		end := offset + iovMax
		if end > len(lines) {
			end = len(lines)
		}
		chunk := lines[offset:end]

		iovecs := make([]syscall.Iovec, len(chunk))
		expected := 0
		for i, line := range chunk {
			iovecs[i].Base = (*byte)(unsafe.Pointer(&line[0]))
			iovecs[i].SetLen(len(line))
			expected += len(line)
		}

		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), iovecs)
		if err != nil {
			return fmt.Errorf("failed to write report with vectorio: %w", err)
		}
		if nw < expected {
			// Short write (pipe or tty): finish the chunk with plain writes
			if err := writeRemainder(file, chunk, nw); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeRemainder writes chunk minus its first skip bytes
func writeRemainder(w io.Writer, chunk [][]byte, skip int) error {
	for _, line := range chunk {
		if skip >= len(line) {
			skip -= len(line)
			continue
		}
		if _, err := w.Write(line[skip:]); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		skip = 0
	}
	return nil
}
