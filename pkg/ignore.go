package dedup

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ignorer decides whether a path is excluded from the scan
type Ignorer interface {
	ShouldIgnore(path string) bool
}

// IgnoreManager holds the glob patterns of the user ignore file.
// Patterns are matched against full paths with fnmatch
// FNM_PATHNAME|FNM_PERIOD semantics: wildcards never cross a '/', and a
// component starting with '.' only matches a pattern component that starts
// with a literal '.'.
type IgnoreManager struct {
	ignorePath string
	patterns   []string
	loaded     bool
}

// NewIgnoreManager creates an ignore manager reading ignorePath
func NewIgnoreManager(ignorePath string) *IgnoreManager {
	return &IgnoreManager{
		ignorePath: ignorePath,
		patterns:   make([]string, 0),
	}
}

// DefaultIgnorePath returns $HOME/.config/dedup/dedup.ignore
func DefaultIgnorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ConfigDir, IgnoreFile)
}

// LoadIgnorePatterns loads patterns from the ignore file.
// A missing file is not an error: nothing is ignored.
func (im *IgnoreManager) LoadIgnorePatterns() error {
	if im.loaded {
		return nil
	}
	if im.ignorePath == "" {
		im.loaded = true
		return nil
	}

	file, err := os.Open(im.ignorePath)
	if os.IsNotExist(err) {
		im.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), " \t\r\n\v\f")

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := im.ValidatePattern(line); err != nil {
			return fmt.Errorf("invalid pattern at line %d: %s - %w", lineNum, line, err)
		}
		im.patterns = append(im.patterns, line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ignore file: %w", err)
	}

	VerboseLog(2, "Loaded %d ignore patterns from %s", len(im.patterns), im.ignorePath)
	im.loaded = true
	return nil
}

// ShouldIgnore reports whether path matches any pattern
func (im *IgnoreManager) ShouldIgnore(path string) bool {
	for _, pattern := range im.patterns {
		if matchPathPattern(pattern, path) {
			if IsDebugEnabled("scan") {
				VerboseLog(3, "ignore: %s matches %s", path, pattern)
			}
			return true
		}
	}
	return false
}

// AddPattern adds a new ignore pattern
func (im *IgnoreManager) AddPattern(pattern string) error {
	if err := im.ValidatePattern(pattern); err != nil {
		return fmt.Errorf("invalid pattern: %s - %w", pattern, err)
	}
	im.patterns = append(im.patterns, pattern)
	return nil
}

// ValidatePattern checks that a pattern is well formed
func (im *IgnoreManager) ValidatePattern(pattern string) error {
	for _, component := range strings.Split(pattern, "/") {
		if _, err := filepath.Match(component, ""); err != nil {
			return err
		}
	}
	return nil
}

// GetPatterns returns all loaded patterns
func (im *IgnoreManager) GetPatterns() []string {
	return im.patterns
}

// HasPatterns returns true if there are any ignore patterns loaded
func (im *IgnoreManager) HasPatterns() bool {
	return len(im.patterns) > 0
}

// GetIgnoreFilePath returns the path to the ignore file
func (im *IgnoreManager) GetIgnoreFilePath() string {
	return im.ignorePath
}

// matchPathPattern matches path against pattern component by component
func matchPathPattern(pattern, path string) bool {
	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")
	if len(patternParts) != len(pathParts) {
		return false
	}

	for i, part := range pathParts {
		if strings.HasPrefix(part, ".") && !strings.HasPrefix(patternParts[i], ".") {
			return false
		}
		matched, err := filepath.Match(patternParts[i], part)
		if err != nil || !matched {
			return false
		}
	}
	return true
}
