package dedup

import (
	"fmt"
	"testing"
)

func TestNameArena_AllocateResolve(t *testing.T) {
	arena := NewNameArena()

	paths := []string{"/a", "/home/user/file.txt", "", "/with space/é"}
	handles := make([]NameHandle, len(paths))
	for i, path := range paths {
		handles[i] = arena.Allocate(path)
	}

	for i, path := range paths {
		if got := arena.Resolve(handles[i]); got != path {
			t.Errorf("Resolve(%d) = %q, expected %q", handles[i], got, path)
		}
	}

	expectedLen := 0
	for _, path := range paths {
		expectedLen += len(path) + 1
	}
	if arena.Len() != expectedLen {
		t.Errorf("Expected %d bytes used, got %d", expectedLen, arena.Len())
	}
}

func TestNameArena_HandlesSurviveGrowth(t *testing.T) {
	arena := NewNameArenaWithCapacity(4)

	handles := make([]NameHandle, 0, 200)
	resolvedBefore := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		h := arena.Allocate(fmt.Sprintf("/dir/file-%03d", i))
		handles = append(handles, h)
		resolvedBefore = append(resolvedBefore, arena.Resolve(h))
	}

	if arena.Capacity() < arena.Len() {
		t.Fatalf("Capacity %d below used size %d", arena.Capacity(), arena.Len())
	}

	for i, h := range handles {
		expected := fmt.Sprintf("/dir/file-%03d", i)
		if got := arena.Resolve(h); got != expected {
			t.Errorf("Handle %d resolves to %q after growth, expected %q", h, got, expected)
		}
		// Strings resolved before a reallocation keep their content
		if resolvedBefore[i] != expected {
			t.Errorf("Earlier resolution of handle %d changed to %q", h, resolvedBefore[i])
		}
	}
}

func TestNameArena_CapacityDoubles(t *testing.T) {
	arena := NewNameArenaWithCapacity(8)
	arena.Allocate("1234567") // 8 bytes with terminator
	if arena.Capacity() != 8 {
		t.Fatalf("Expected capacity 8, got %d", arena.Capacity())
	}

	arena.Allocate("x")
	if arena.Capacity() != 16 {
		t.Errorf("Expected capacity to double to 16, got %d", arena.Capacity())
	}

	arena.Allocate("0123456789012345678901234567890123456789")
	if arena.Capacity() != 64 {
		t.Errorf("Expected capacity 64 after a large append, got %d", arena.Capacity())
	}
}

func TestNameArena_AllocateJoined(t *testing.T) {
	arena := NewNameArena()

	tests := []struct {
		dir, name, expected string
	}{
		{"/home/user", "file", "/home/user/file"},
		{"/", "etc", "/etc"},
		{"/tmp/", "x", "/tmp/x"},
	}

	for _, tt := range tests {
		h := arena.AllocateJoined(tt.dir, tt.name)
		if got := arena.Resolve(h); got != tt.expected {
			t.Errorf("AllocateJoined(%q, %q) = %q, expected %q", tt.dir, tt.name, got, tt.expected)
		}
	}
}

func TestNameArena_MemoryUsage(t *testing.T) {
	arena := NewNameArenaWithCapacity(1024)
	if arena.MemoryUsage() < 1024 {
		t.Errorf("Memory usage %d should include the 1024 byte buffer", arena.MemoryUsage())
	}
}
