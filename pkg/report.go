package dedup

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// RootSummary is the outcome of scanning one root
type RootSummary struct {
	Path  string `json:"path"`
	Files int    `json:"files"`
}

// Report is everything printed at the end of a run
type Report struct {
	Roots         []RootSummary    `json:"roots"`
	MemoryUsageMb int64            `json:"memory_usage_mb"`
	HashAlgorithm string           `json:"hash"`
	Safe          bool             `json:"safe"`
	Groups        []DuplicateGroup `json:"groups"`
	LostSpace     int64            `json:"lost_space"`
	Digests       DigestStats      `json:"digests"`
}

// WriteReport writes r to w in the given format (human or json)
func WriteReport(w io.Writer, r *Report, format string) error {
	switch strings.ToLower(format) {
	case FormatHuman, "":
		return WriteHumanReport(w, r)
	case FormatJSON:
		return WriteJSONReport(w, r)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteHumanReport writes the shell-comment report: one line per root, the
// memory usage line, every group as "# rm" suggestions, then the lost space
func WriteHumanReport(w io.Writer, r *Report) error {
	out := newReportWriter(w)

	for _, root := range r.Roots {
		out.Printf("# %s (%d files)\n", root.Path, root.Files)
	}
	out.Printf("# Memory usage: %d Mb\n", r.MemoryUsageMb)

	for _, group := range r.Groups {
		out.Printf("\n# Same files (%s)\n", FormatSizeUnit(group.Size))
		for _, path := range group.Files {
			out.Printf("# rm \"%s\"\n", path)
		}
	}

	out.Printf("\n# Lost space: %s\n", FormatSizeUnit(r.LostSpace))

	return out.Flush()
}

// WriteJSONReport writes r as one indented JSON document
func WriteJSONReport(w io.Writer, r *Report) error {
	if r.Roots == nil {
		r.Roots = []RootSummary{}
	}
	if r.Groups == nil {
		r.Groups = []DuplicateGroup{}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	out := newReportWriter(w)
	out.Append(data)
	out.Append([]byte("\n"))
	return out.Flush()
}
