package dedup

import (
	"bytes"
	"math"
	"unsafe"
)

// NameHandle is the byte offset of a path in a NameArena.
// Handles stay valid when the arena grows; raw pointers into the buffer are
// never handed out.
type NameHandle int

// NameArena stores null-terminated paths back to back in one growable buffer
type NameArena struct {
	buffer []byte // len is the used size, cap the capacity
}

// NewNameArena creates an arena with the default initial capacity
func NewNameArena() *NameArena {
	return NewNameArenaWithCapacity(initialArenaCapacity)
}

// NewNameArenaWithCapacity creates an arena with the given initial capacity
func NewNameArenaWithCapacity(capacity int) *NameArena {
	if capacity < 1 {
		capacity = 1
	}
	return &NameArena{buffer: make([]byte, 0, capacity)}
}

// Allocate appends path plus a terminator and returns its handle
func (na *NameArena) Allocate(path string) NameHandle {
	need := len(path) + 1
	if len(na.buffer)+need > cap(na.buffer) {
		na.grow(need)
	}

	handle := NameHandle(len(na.buffer))
	na.buffer = append(na.buffer, path...)
	na.buffer = append(na.buffer, 0)
	return handle
}

// AllocateJoined appends dir + "/" + name without building an intermediate string
func (na *NameArena) AllocateJoined(dir, name string) NameHandle {
	sep := 1
	if len(dir) > 0 && dir[len(dir)-1] == '/' {
		sep = 0
	}
	need := len(dir) + sep + len(name) + 1
	if len(na.buffer)+need > cap(na.buffer) {
		na.grow(need)
	}

	handle := NameHandle(len(na.buffer))
	na.buffer = append(na.buffer, dir...)
	if sep == 1 {
		na.buffer = append(na.buffer, '/')
	}
	na.buffer = append(na.buffer, name...)
	na.buffer = append(na.buffer, 0)
	return handle
}

// grow doubles the capacity until need more bytes fit
func (na *NameArena) grow(need int) {
	newCap := cap(na.buffer)
	if newCap < 1 {
		newCap = 1
	}
	for len(na.buffer)+need > newCap {
		if newCap > math.MaxInt/2 {
			fatalf("Memory allocation error (too many files)")
			return
		}
		newCap *= 2
	}

	if IsDebugEnabled("arena") {
		VerboseLog(3, "NameArena: growing from %d to %d bytes", cap(na.buffer), newCap)
	}

	grown := make([]byte, len(na.buffer), newCap)
	copy(grown, na.buffer)
	na.buffer = grown
}

// Resolve returns the path stored at handle.
// The returned string shares memory with the arena; bytes are never
// rewritten once appended, so it stays valid after the arena grows.
func (na *NameArena) Resolve(handle NameHandle) string {
	data := na.buffer[handle:]
	end := bytes.IndexByte(data, 0)
	if end <= 0 {
		return ""
	}
	return unsafe.String(&data[0], end)
}

// Len returns the number of bytes in use
func (na *NameArena) Len() int {
	return len(na.buffer)
}

// Capacity returns the number of bytes currently reserved
func (na *NameArena) Capacity() int {
	return cap(na.buffer)
}

// MemoryUsage returns the bytes reserved by the arena including its header
func (na *NameArena) MemoryUsage() int {
	return int(unsafe.Sizeof(*na)) + cap(na.buffer)
}
