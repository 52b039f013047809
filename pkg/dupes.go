package dedup

// DuplicateGroup is one run of sorted records holding the same content
type DuplicateGroup struct {
	Size  int64    `json:"size"`  // Size of every member
	Files []string `json:"files"` // Member paths in sorted order
	Count int      `json:"count"` // Number of member paths
	Lost  int64    `json:"lost"`  // Bytes reclaimable by keeping a single inode
}

// FindDuplicates walks a sorted registry and returns the reportable groups
// with the total lost space. Adjacent records are grouped while Similar
// holds; a group whose members are all links to one inode is skipped.
func FindDuplicates(registry *Registry, arena *NameArena, comparator *Comparator) ([]DuplicateGroup, int64) {
	defer VerboseEnter()()

	var groups []DuplicateGroup
	var lost int64

	if registry.Len() == 0 {
		return groups, 0
	}

	first := 0
	for i := 1; i <= registry.Len(); i++ {
		if i < registry.Len() && comparator.Similar(registry.Get(i-1), registry.Get(i)) {
			continue
		}
		if group, ok := buildGroup(registry, arena, first, i-1); ok {
			groups = append(groups, group)
			lost += group.Lost
		}
		first = i
	}

	VerboseLog(1, "Found %d duplicate groups", len(groups))
	return groups, lost
}

// buildGroup turns records first..last into a group; false unless the run
// spans more than one inode
func buildGroup(registry *Registry, arena *NameArena, first, last int) (DuplicateGroup, bool) {
	head := registry.Get(first)

	distinct := false
	for i := first + 1; i <= last; i++ {
		if !registry.Get(i).SameInode(head) {
			distinct = true
			break
		}
	}
	if !distinct {
		return DuplicateGroup{}, false
	}

	group := DuplicateGroup{
		Size:  head.Size,
		Files: make([]string, 0, last-first+1),
	}

	for i := first; i <= last; i++ {
		rec := registry.Get(i)
		group.Files = append(group.Files, arena.Resolve(rec.Name))

		counted := false
		for j := first; j < i; j++ {
			if registry.Get(j).SameInode(rec) {
				counted = true
				break
			}
		}
		// The first inode of the group is the copy that stays
		if !counted && i != first {
			group.Lost += rec.Size
		}
	}
	group.Count = len(group.Files)

	return group, true
}
