package dedup

import (
	"bytes"
	"strings"
)

// Comparator orders file records and decides whether two of them hold the
// same content. Both operations read digests through the Evaluator, so they
// compute and memoise digests on the records they are given.
type Comparator struct {
	arena     *NameArena
	evaluator *Evaluator
	safe      bool // Compare full-content digests of large files
}

// NewComparator creates a comparator; safe enables full-content digests
func NewComparator(arena *NameArena, evaluator *Evaluator, safe bool) *Comparator {
	return &Comparator{
		arena:     arena,
		evaluator: evaluator,
		safe:      safe,
	}
}

// Safe reports whether full-content comparison is enabled
func (c *Comparator) Safe() bool {
	return c.safe
}

// Compare is a total order: size, then hard links by name, then the start,
// end and full digests as far as they apply, then name.
func (c *Comparator) Compare(a, b *FileRecord) int {
	if a.Size < b.Size {
		return -1
	}
	if a.Size > b.Size {
		return +1
	}

	if a.SameInode(b) {
		return c.compareNames(a, b)
	}

	if order := c.compareDigests(a, b); order != 0 {
		return order
	}

	return c.compareNames(a, b)
}

// Similar reports whether a and b belong to the same duplicate group.
// It agrees with Compare: similar records only differ by name.
func (c *Comparator) Similar(a, b *FileRecord) bool {
	if a.Size != b.Size {
		return false
	}
	if a.SameInode(b) {
		return true
	}
	return c.compareDigests(a, b) == 0
}

// compareDigests compares the digest tiers that apply to two records of
// equal size, stopping at the first difference
func (c *Comparator) compareDigests(a, b *FileRecord) int {
	startA := c.evaluator.StartDigest(a)
	startB := c.evaluator.StartDigest(b)
	if order := bytes.Compare(startA[:], startB[:]); order != 0 {
		return order
	}

	if a.Size > PartialSize {
		endA := c.evaluator.EndDigest(a)
		endB := c.evaluator.EndDigest(b)
		if order := bytes.Compare(endA[:], endB[:]); order != 0 {
			return order
		}
	}

	if c.safe && a.Size > 2*PartialSize {
		fullA := c.evaluator.FullDigest(a)
		fullB := c.evaluator.FullDigest(b)
		if order := bytes.Compare(fullA[:], fullB[:]); order != 0 {
			return order
		}
	}

	if IsDebugEnabled("compare") {
		VerboseLog(3, "compare: %s matches %s", c.arena.Resolve(a.Name), c.arena.Resolve(b.Name))
	}
	return 0
}

func (c *Comparator) compareNames(a, b *FileRecord) int {
	return strings.Compare(c.arena.Resolve(a.Name), c.arena.Resolve(b.Name))
}
