package dedup

import (
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// nameRef is the skiplist item: a handle resolved through the arena on demand
type nameRef struct {
	Handle NameHandle
}

// pathIndex is an ordered set of registered paths.
// Items are arena handles, so the index never copies path bytes; the
// context of each item is the scan root it was first reached from.
type pathIndex struct {
	arena    *NameArena
	skiplist *zcsl.ZeroCopySkiplist[nameRef, string, string]
}

// newPathIndex creates an empty path index over arena
func newPathIndex(arena *NameArena, maxLevels int) *pathIndex {
	if maxLevels < 8 {
		maxLevels = 16 // reasonable default
	}

	getKeyFromItem := func(ref *nameRef) string {
		return arena.Resolve(ref.Handle)
	}

	getItemSize := func(ref *nameRef) int {
		return len(arena.Resolve(ref.Handle)) + 1
	}

	cmpKey := func(a, b string) int {
		return strings.Compare(a, b)
	}

	return &pathIndex{
		arena: arena,
		skiplist: zcsl.MakeZeroCopySkiplist[nameRef, string, string](
			maxLevels,
			getKeyFromItem,
			getItemSize,
			cmpKey,
		),
	}
}

// Insert records handle as reached from root; false if the path is already present
func (pi *pathIndex) Insert(handle NameHandle, root string) bool {
	if _, exists := pi.Lookup(pi.arena.Resolve(handle)); exists {
		return false
	}
	ref := nameRef{Handle: handle}
	return pi.skiplist.Insert(&ref, root)
}

// Lookup returns the root a path was first registered under
func (pi *pathIndex) Lookup(path string) (string, bool) {
	itemPtr, root := pi.skiplist.Find(path)
	if itemPtr == nil {
		return "", false
	}
	return root, true
}

// Length returns the number of registered paths
func (pi *pathIndex) Length() int {
	return pi.skiplist.Length()
}
