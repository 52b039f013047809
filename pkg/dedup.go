package dedup

import (
	"fmt"
	"path/filepath"
)

// Options configures one deduplication run
type Options struct {
	ShowHidden    bool    // Visit dot entries
	Safe          bool    // Compare full-content digests of large files
	MinFileSize   int64   // Smaller files are not candidates
	HashAlgorithm string  // Digest algorithm name (see SupportedHashAlgorithms)
	HashWorkers   int     // Start digest prefetch workers; 1 disables prefetching
	ReadBuffer    int     // Full-content digest block size
	Ignorer       Ignorer // Optional path filter
}

// DefaultOptions returns the options of an unconfigured run
func DefaultOptions() Options {
	return Options{
		MinFileSize:   DefaultMinFileSize,
		HashAlgorithm: DefaultHashAlgorithm,
		HashWorkers:   1,
		ReadBuffer:    DefaultReadBuffer,
	}
}

// OptionsFromConfig builds run options from a validated configuration
func OptionsFromConfig(cfg *Config) (Options, error) {
	all := cfg.GetAllConfig()

	readBuffer, err := ParseHumanSize(all.Performance.ReadBuffer)
	if err != nil {
		return Options{}, fmt.Errorf("invalid read buffer size: %w", err)
	}

	return Options{
		ShowHidden:    all.Scan.Hidden,
		Safe:          all.Compare.Safe,
		MinFileSize:   all.Scan.MinFileSize,
		HashAlgorithm: all.Hash.Default,
		HashWorkers:   all.Performance.HashWorkers,
		ReadBuffer:    int(readBuffer),
	}, nil
}

// Deduplicator owns the arena and registry of one run and drives the
// scan, sort, group and report phases over them
type Deduplicator struct {
	options    Options
	arena      *NameArena
	registry   *Registry
	evaluator  *Evaluator
	comparator *Comparator
	scanner    *Scanner
	roots      []RootSummary
	sorted     bool
}

// New creates an empty run
func New(options Options) (*Deduplicator, error) {
	if options.HashAlgorithm == "" {
		options.HashAlgorithm = DefaultHashAlgorithm
	}
	algorithm, err := GetHashAlgorithm(options.HashAlgorithm)
	if err != nil {
		return nil, err
	}
	if options.HashWorkers < 1 {
		options.HashWorkers = 1
	}

	arena := NewNameArena()
	registry := NewRegistry()
	evaluator := NewEvaluator(arena, algorithm, options.ReadBuffer)

	d := &Deduplicator{
		options:    options,
		arena:      arena,
		registry:   registry,
		evaluator:  evaluator,
		comparator: NewComparator(arena, evaluator, options.Safe),
		scanner: NewScanner(arena, registry, options.Ignorer, ScanOptions{
			ShowHidden:  options.ShowHidden,
			MinFileSize: options.MinFileSize,
		}),
	}

	VerboseLog(2, "Run options: hidden=%t safe=%t min_file_size=%d hash=%s workers=%d",
		options.ShowHidden, options.Safe, options.MinFileSize, algorithm.Name, options.HashWorkers)
	return d, nil
}

// ResolveRoot returns the absolute path of root with symlinks resolved
func ResolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// ScanRoot resolves root and registers the files under it.
// An unresolvable root is reported and skipped.
func (d *Deduplicator) ScanRoot(root string) (RootSummary, bool) {
	resolved, err := ResolveRoot(root)
	if err != nil {
		warnPath(root, err)
		return RootSummary{}, false
	}

	summary := RootSummary{
		Path:  resolved,
		Files: d.scanner.Scan(resolved),
	}
	d.roots = append(d.roots, summary)
	d.sorted = false

	VerboseLog(1, "Scanned %s: %d files", summary.Path, summary.Files)
	return summary, true
}

// Sort orders the registry, prefetching start digests first when more
// than one hash worker is configured
func (d *Deduplicator) Sort() {
	if d.options.HashWorkers > 1 {
		Prefetch(d.registry, d.evaluator, d.options.HashWorkers)
	}
	d.registry.Sort(d.comparator.Compare)
	d.sorted = true

	stats := d.evaluator.Stats()
	VerboseLog(2, "Digests computed: start=%d end=%d full=%d failures=%d",
		stats.Start, stats.End, stats.Full, stats.Failures)
}

// FindDuplicates sorts if needed and returns the duplicate groups and the total lost space
func (d *Deduplicator) FindDuplicates() ([]DuplicateGroup, int64) {
	if !d.sorted {
		d.Sort()
	}
	return FindDuplicates(d.registry, d.arena, d.comparator)
}

// Run scans roots in order and returns the complete report
func (d *Deduplicator) Run(roots []string) *Report {
	defer VerboseEnter()()

	for _, root := range roots {
		d.ScanRoot(root)
	}
	return d.Report()
}

// Report groups the registered files and assembles the report
func (d *Deduplicator) Report() *Report {
	memory := memoryUsageMb(d.arena, d.registry)
	groups, lost := d.FindDuplicates()

	return &Report{
		Roots:         d.roots,
		MemoryUsageMb: memory,
		HashAlgorithm: d.evaluator.Algorithm().Name,
		Safe:          d.comparator.Safe(),
		Groups:        groups,
		LostSpace:     lost,
		Digests:       d.evaluator.Stats(),
	}
}

// Roots returns the roots scanned so far
func (d *Deduplicator) Roots() []RootSummary {
	return d.roots
}

// Registry returns the file registry of the run
func (d *Deduplicator) Registry() *Registry {
	return d.registry
}

// Arena returns the name arena of the run
func (d *Deduplicator) Arena() *NameArena {
	return d.arena
}

// Evaluator returns the digest evaluator of the run
func (d *Deduplicator) Evaluator() *Evaluator {
	return d.evaluator
}

// Comparator returns the record comparator of the run
func (d *Deduplicator) Comparator() *Comparator {
	return d.comparator
}
