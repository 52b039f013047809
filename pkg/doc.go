// Package dedup finds files with identical content under one or more
// directory trees and reports them as removal suggestions.
//
// # Core API
//
// The main entry point is Deduplicator, which owns the name arena and file
// registry of one run:
//
//	d, err := dedup.New(dedup.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	report := d.Run([]string{"/home/me/photos", "/mnt/backup"})
//	dedup.WriteReport(os.Stdout, report, dedup.FormatHuman)
//
// Files are compared by size first, then by digests of their first and last
// 4 KiB, then (in safe mode) by a digest of their whole content. Digests are
// computed lazily while sorting and never twice for the same file.
//
// # Configuration
//
// Options usually come from $HOME/.config/dedup/dedup.conf:
//
//	cfg, err := dedup.LoadConfig(dedup.DefaultConfigPath())
//	err = cfg.ApplyOverrides([]string{"safe:true"})
//	err = cfg.Validate()
//	opts, err := dedup.OptionsFromConfig(cfg)
//
// Paths matching a pattern of $HOME/.config/dedup/dedup.ignore are skipped
// when an IgnoreManager is set as Options.Ignorer.
//
// Enable debug output:
//
//	dedup.SetDebugFlags("scan,digest")
//	dedup.SetVerboseLevel(2)
//
// # Lower level API
//
// NameArena, Registry, Scanner, Evaluator and Comparator are exported so the
// phases can be driven separately; FindDuplicates expects a registry sorted
// with the same Comparator.
package dedup
