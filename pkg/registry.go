package dedup

import (
	"math"
	"sort"
	"unsafe"
)

// digestState is the evaluation state of one digest tier
type digestState uint8

const (
	digestUnevaluated digestState = iota // Not computed yet
	digestEvaluated                      // value holds the digest
	digestUnavailable                    // File vanished; value stays zero
)

// Digest holds a digest zero padded to MaxDigestSize bytes.
// Every record of a run uses the same algorithm, so whole arrays compare.
type Digest [MaxDigestSize]byte

// digestTier memoises one fingerprint of a file
type digestTier struct {
	state digestState
	value Digest
}

// settled reports whether the tier needs no further I/O
func (dt *digestTier) settled() bool {
	return dt.state != digestUnevaluated
}

// FileRecord describes one regular file accepted by the scan
type FileRecord struct {
	Name     NameHandle // Arena handle of the absolute path
	Device   uint64     // Device ID
	Inode    uint64     // Inode number
	Size     int64      // File size in bytes at scan time
	Vanished bool       // Set once a digest read failed

	start digestTier
	end   digestTier
	full  digestTier
}

// SameInode reports whether both records are the same physical file
func (fr *FileRecord) SameInode(other *FileRecord) bool {
	return fr.Device == other.Device && fr.Inode == other.Inode
}

// StartEvaluated reports whether the start digest has been settled
func (fr *FileRecord) StartEvaluated() bool { return fr.start.settled() }

// EndEvaluated reports whether the end digest has been settled
func (fr *FileRecord) EndEvaluated() bool { return fr.end.settled() }

// FullEvaluated reports whether the full-content digest has been settled
func (fr *FileRecord) FullEvaluated() bool { return fr.full.settled() }

// Registry is the growable array of file records.
// Records are addressed by index; pointers returned by Get are only valid
// until the next AllocateRecord.
type Registry struct {
	records []FileRecord
}

// NewRegistry creates a registry with the default initial capacity
func NewRegistry() *Registry {
	return NewRegistryWithCapacity(initialRegistryCapacity)
}

// NewRegistryWithCapacity creates a registry with the given initial capacity
func NewRegistryWithCapacity(capacity int) *Registry {
	if capacity < 1 {
		capacity = 1
	}
	return &Registry{records: make([]FileRecord, 0, capacity)}
}

// AllocateRecord appends a zeroed record and returns its index
func (r *Registry) AllocateRecord() int {
	if len(r.records) == cap(r.records) {
		r.grow()
	}
	r.records = r.records[:len(r.records)+1]
	idx := len(r.records) - 1
	r.records[idx] = FileRecord{}
	return idx
}

// grow doubles the record capacity
func (r *Registry) grow() {
	newCap := cap(r.records) * 2
	if newCap == 0 {
		newCap = 1
	}
	if cap(r.records) > math.MaxInt/2/int(unsafe.Sizeof(FileRecord{})) {
		fatalf("Memory allocation error (too many files)")
		return
	}

	if IsDebugEnabled("registry") {
		VerboseLog(3, "Registry: growing from %d to %d records", cap(r.records), newCap)
	}

	grown := make([]FileRecord, len(r.records), newCap)
	copy(grown, r.records)
	r.records = grown
}

// DropLast removes the most recently allocated record
func (r *Registry) DropLast() {
	if len(r.records) == 0 {
		return
	}
	r.records = r.records[:len(r.records)-1]
}

// Get returns the record at index
func (r *Registry) Get(index int) *FileRecord {
	return &r.records[index]
}

// Len returns the number of records
func (r *Registry) Len() int {
	return len(r.records)
}

// Capacity returns the number of records currently reserved
func (r *Registry) Capacity() int {
	return cap(r.records)
}

// MemoryUsage returns the bytes reserved by the registry including its header
func (r *Registry) MemoryUsage() int {
	return int(unsafe.Sizeof(*r)) + cap(r.records)*int(unsafe.Sizeof(FileRecord{}))
}

// Sort orders the records in place with cmp.
// cmp receives pointers into the registry and may populate memoised digest
// fields; swaps move the whole record, memoised state included.
func (r *Registry) Sort(cmp func(a, b *FileRecord) int) {
	defer VerboseEnter()()
	sort.Sort(&recordSorter{records: r.records, cmp: cmp})
}

// recordSorter adapts a record slice and comparator to sort.Interface
type recordSorter struct {
	records []FileRecord
	cmp     func(a, b *FileRecord) int
}

func (rs *recordSorter) Len() int { return len(rs.records) }

func (rs *recordSorter) Less(i, j int) bool {
	return rs.cmp(&rs.records[i], &rs.records[j]) < 0
}

func (rs *recordSorter) Swap(i, j int) {
	rs.records[i], rs.records[j] = rs.records[j], rs.records[i]
}
