package dedup

import (
	"sync"
)

// prefetchManager computes start digests on a pool of workers.
// Jobs are registry indexes; each index is submitted once, so no two
// workers touch the same record.
type prefetchManager struct {
	registry  *Registry
	evaluator *Evaluator
	jobChan   chan int
	wg        sync.WaitGroup
	closed    bool
	closeMu   sync.Mutex
}

// newPrefetchManager starts numWorkers workers
func newPrefetchManager(registry *Registry, evaluator *Evaluator, numWorkers int) *prefetchManager {
	manager := &prefetchManager{
		registry:  registry,
		evaluator: evaluator,
		jobChan:   make(chan int, 100),
	}

	for i := 0; i < numWorkers; i++ {
		manager.wg.Add(1)
		go manager.worker()
	}

	return manager
}

// Submit queues the record at index
func (pm *prefetchManager) Submit(index int) {
	pm.jobChan <- index
}

// Finish stops accepting jobs and waits for the workers to drain the queue
func (pm *prefetchManager) Finish() {
	pm.closeMu.Lock()
	if !pm.closed {
		close(pm.jobChan)
		pm.closed = true
	}
	pm.closeMu.Unlock()
	pm.wg.Wait()
}

func (pm *prefetchManager) worker() {
	defer pm.wg.Done()

	for index := range pm.jobChan {
		rec := pm.registry.Get(index)
		if IsDebugEnabled("prefetch") {
			VerboseLog(3, "prefetch: start digest of %s", pm.evaluator.arena.Resolve(rec.Name))
		}
		pm.evaluator.StartDigest(rec)
	}
}

// PrefetchCandidates returns the indexes of records whose size is shared
// with a record of a different inode. Only those can reach a digest
// comparison while sorting.
func PrefetchCandidates(registry *Registry) []int {
	type sizeClass struct {
		device, inode uint64
		mixed         bool
	}

	classes := make(map[int64]*sizeClass)
	for i := 0; i < registry.Len(); i++ {
		rec := registry.Get(i)
		class, exists := classes[rec.Size]
		if !exists {
			classes[rec.Size] = &sizeClass{device: rec.Device, inode: rec.Inode}
			continue
		}
		if class.device != rec.Device || class.inode != rec.Inode {
			class.mixed = true
		}
	}

	candidates := make([]int, 0)
	for i := 0; i < registry.Len(); i++ {
		if classes[registry.Get(i).Size].mixed {
			candidates = append(candidates, i)
		}
	}
	return candidates
}

// Prefetch computes the start digest of every candidate record with
// numWorkers workers and returns once all of them are done. The registry
// and arena must not change while it runs.
func Prefetch(registry *Registry, evaluator *Evaluator, numWorkers int) int {
	defer VerboseEnter()()

	if numWorkers < 1 {
		numWorkers = 1
	}

	candidates := PrefetchCandidates(registry)
	if len(candidates) == 0 {
		return 0
	}
	VerboseLog(1, "Prefetching %d start digests with %d workers", len(candidates), numWorkers)

	manager := newPrefetchManager(registry, evaluator, numWorkers)
	for _, index := range candidates {
		manager.Submit(index)
	}
	manager.Finish()

	return len(candidates)
}
