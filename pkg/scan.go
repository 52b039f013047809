package dedup

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// ScanOptions controls which entries the scanner accepts
type ScanOptions struct {
	ShowHidden  bool  // Visit entries whose name starts with '.'
	MinFileSize int64 // Regular files below this size are skipped
}

// Scanner walks directory trees and registers regular files.
// Names go to the arena, metadata to the registry; a path reached twice
// (overlapping roots) is registered once.
type Scanner struct {
	arena    *NameArena
	registry *Registry
	ignorer  Ignorer
	options  ScanOptions
	paths    *pathIndex
}

// NewScanner creates a scanner filling arena and registry.
// ignorer may be nil.
func NewScanner(arena *NameArena, registry *Registry, ignorer Ignorer, options ScanOptions) *Scanner {
	return &Scanner{
		arena:    arena,
		registry: registry,
		ignorer:  ignorer,
		options:  options,
		paths:    newPathIndex(arena, 16),
	}
}

// Scan recursively registers the regular files under root, which must be
// an absolute, resolved path. It returns the number of files added.
// Unreadable directories and files are reported and skipped.
func (s *Scanner) Scan(root string) int {
	defer VerboseEnter()()
	if IsDebugEnabled("scan") {
		VerboseLog(3, "Scan: starting scan of root: %s", root)
	}
	return s.scanDir(root, root)
}

// RegisteredPaths returns the number of distinct paths registered so far
func (s *Scanner) RegisteredPaths() int {
	return s.paths.Length()
}

// scanDir registers the files under dir and recurses into subdirectories
func (s *Scanner) scanDir(dir, root string) int {
	if s.ignored(dir) {
		return 0
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		warnPath(dir, err)
		if len(entries) == 0 {
			return 0
		}
	}

	n := 0
	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		if name[0] == '.' && !s.options.ShowHidden {
			continue
		}

		entryType := entry.Type()
		switch {
		case entryType.IsDir():
			n += s.scanDir(joinPath(dir, name), root)
		case entryType.IsRegular():
			if s.addFile(dir, name, root) {
				n++
			}
		default:
			// Symlinks, devices, sockets and pipes are not candidates
			if IsDebugEnabled("scan") {
				VerboseLog(3, "Scan: skipping %s (type %v)", joinPath(dir, name), entryType)
			}
		}
	}
	return n
}

// addFile registers dir/name; false when the file is skipped
func (s *Scanner) addFile(dir, name, root string) bool {
	path := joinPath(dir, name)
	if s.ignored(path) {
		return false
	}
	if firstRoot, seen := s.paths.Lookup(path); seen {
		VerboseLog(2, "Skipping %s: already registered from %s", path, firstRoot)
		return false
	}

	handle := s.arena.AllocateJoined(dir, name)
	idx := s.registry.AllocateRecord()
	rec := s.registry.Get(idx)
	rec.Name = handle

	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		warnPath(path, err)
		s.registry.DropLast()
		return false
	}
	if st.Size < s.options.MinFileSize {
		s.registry.DropLast()
		return false
	}

	rec.Size = st.Size
	rec.Device = uint64(st.Dev)
	rec.Inode = uint64(st.Ino)

	s.paths.Insert(handle, root)

	if IsDebugEnabled("scan") {
		VerboseLog(3, "Scan: found file %s (%d bytes, dev %d, ino %d)", path, rec.Size, rec.Device, rec.Inode)
	}
	return true
}

// ignored applies the ignore predicate, if any
func (s *Scanner) ignored(path string) bool {
	return s.ignorer != nil && s.ignorer.ShouldIgnore(path)
}

// joinPath joins without cleaning; dir is already absolute and clean
func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
