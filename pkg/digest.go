package dedup

import (
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// DigestStats counts digest computations per tier
type DigestStats struct {
	Start    int64 `json:"start"`    // Start digests computed
	End      int64 `json:"end"`      // End digests computed
	Full     int64 `json:"full"`     // Full-content digests computed
	Failures int64 `json:"failures"` // Reads that marked a record vanished
}

// Evaluator computes the three digest tiers of a record on demand.
// Every tier is computed at most once per record; a failed read marks the
// record vanished and all of its unsettled tiers read as zero from then on.
// Distinct records may be evaluated from different goroutines as long as
// the arena is not growing at the same time.
type Evaluator struct {
	arena      *NameArena
	algorithm  *HashAlgorithm
	readBuffer int

	startCount   atomic.Int64
	endCount     atomic.Int64
	fullCount    atomic.Int64
	failureCount atomic.Int64
}

// NewEvaluator creates an evaluator resolving names through arena
func NewEvaluator(arena *NameArena, algorithm *HashAlgorithm, readBuffer int) *Evaluator {
	if readBuffer <= 0 {
		readBuffer = DefaultReadBuffer
	}
	return &Evaluator{
		arena:      arena,
		algorithm:  algorithm,
		readBuffer: readBuffer,
	}
}

// Algorithm returns the hash algorithm in use
func (ev *Evaluator) Algorithm() *HashAlgorithm {
	return ev.algorithm
}

// Stats returns a snapshot of the computation counters
func (ev *Evaluator) Stats() DigestStats {
	return DigestStats{
		Start:    ev.startCount.Load(),
		End:      ev.endCount.Load(),
		Full:     ev.fullCount.Load(),
		Failures: ev.failureCount.Load(),
	}
}

// StartDigest returns the digest of the first PartialSize bytes of rec
func (ev *Evaluator) StartDigest(rec *FileRecord) Digest {
	return ev.evaluate(rec, &rec.start, "start", ev.hashStart)
}

// EndDigest returns the digest of the last PartialSize bytes of rec.
// Only meaningful when rec.Size > PartialSize.
func (ev *Evaluator) EndDigest(rec *FileRecord) Digest {
	return ev.evaluate(rec, &rec.end, "end", ev.hashEnd)
}

// FullDigest returns the digest of the whole content of rec
func (ev *Evaluator) FullDigest(rec *FileRecord) Digest {
	return ev.evaluate(rec, &rec.full, "full", ev.hashFull)
}

// evaluate settles tier using compute unless it is already settled
func (ev *Evaluator) evaluate(rec *FileRecord, tier *digestTier, tierName string, compute func(path string, size int64, h hash.Hash) error) Digest {
	if tier.settled() {
		return tier.value
	}
	if rec.Vanished {
		tier.state = digestUnavailable
		return tier.value
	}

	path := ev.arena.Resolve(rec.Name)
	h := ev.algorithm.NewFunc()

	if err := compute(path, rec.Size, h); err != nil {
		warnPath(path, err)
		ev.failureCount.Add(1)
		rec.Vanished = true
		tier.state = digestUnavailable
		tier.value = Digest{}
		return tier.value
	}

	copy(tier.value[:], h.Sum(nil))
	tier.state = digestEvaluated

	switch tierName {
	case "start":
		ev.startCount.Add(1)
	case "end":
		ev.endCount.Add(1)
	case "full":
		ev.fullCount.Add(1)
	}

	if IsDebugEnabled("digest") {
		VerboseLog(3, "digest: %s %s %x", tierName, path, tier.value[:ev.algorithm.Size])
	}
	return tier.value
}

// hashStart hashes up to PartialSize leading bytes
func (ev *Evaluator) hashStart(path string, size int64, h hash.Hash) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	buf := make([]byte, PartialSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	h.Write(buf[:n])
	return nil
}

// hashEnd hashes the PartialSize trailing bytes, located from the scanned size
func (ev *Evaluator) hashEnd(path string, size int64, h hash.Hash) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	offset := size - PartialSize
	if offset < 0 {
		offset = 0
	}

	buf := make([]byte, PartialSize)
	n, err := file.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	h.Write(buf[:n])
	return nil
}

// hashFull streams the whole file through h in readBuffer sized blocks
func (ev *Evaluator) hashFull(path string, size int64, h hash.Hash) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Advisory only
	_ = unix.Fadvise(int(file.Fd()), 0, 0, unix.FADV_SEQUENTIAL)

	buffer := make([]byte, ev.readBuffer)
	for {
		n, err := file.Read(buffer)
		if n > 0 {
			h.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}
	}
	return nil
}
