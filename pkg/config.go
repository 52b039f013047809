package dedup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the dedup configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// ScanConfig represents directory scan configuration
type ScanConfig struct {
	Hidden      bool  // Visit entries whose name starts with '.'
	MinFileSize int64 // Files below this size are not candidates
}

// CompareConfig represents content comparison configuration
type CompareConfig struct {
	Safe bool // Compare full-content digests of files larger than two partial blocks
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Default string // Digest algorithm used for every tier
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // Report format: human, json
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashWorkers int    // Start digest prefetch workers; 1 disables prefetching
	ReadBuffer  string // Block size for full-content digests (default: "4K")
}

// AllConfig represents all configuration options
type AllConfig struct {
	Scan        *ScanConfig
	Compare     *CompareConfig
	Hash        *HashConfig
	Output      *OutputConfig
	Verbose     *VerboseConfig
	Performance *PerformanceConfig
}

// configDefault is one key of the default configuration file
type configDefault struct {
	section string
	key     string
	value   string
}

var configDefaults = []configDefault{
	{"scan", "hidden", "false"},
	{"scan", "min_file_size", fmt.Sprintf("%d", DefaultMinFileSize)},
	{"compare", "safe", "false"},
	{"filehash", "default", DefaultHashAlgorithm},
	{"output", "format", FormatHuman},
	{"verbose", "level", "0"},
	{"verbose", "debug", ""},
	{"performance", "hash_workers", "1"},
	{"performance", "read_buffer", "4K"},
}

// overrideKeys maps ApplyOverrides keys to their section
var overrideKeys = map[string]string{
	"hidden":        "scan",
	"min_file_size": "scan",
	"safe":          "compare",
	"default":       "filehash",
	"format":        "output",
	"level":         "verbose",
	"debug":         "verbose",
	"hash_workers":  "performance",
	"read_buffer":   "performance",
}

// DefaultConfigPath returns $HOME/.config/dedup/dedup.conf
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

// LoadConfig loads configuration from configPath.
// A missing file yields the defaults; nothing is written to disk.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return NewDefaultConfig(""), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		VerboseLog(2, "No config file at %s, using defaults", configPath)
		return NewDefaultConfig(configPath), nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	VerboseLog(2, "Loaded config file %s", configPath)

	return &Config{
		configPath: configPath,
		ini:        iniFile,
	}, nil
}

// NewDefaultConfig creates an in-memory default configuration bound to configPath
func NewDefaultConfig(configPath string) *Config {
	cfg := &Config{
		configPath: configPath,
		ini:        ini.Empty(),
	}
	for _, def := range configDefaults {
		cfg.ini.Section(def.section).Key(def.key).SetValue(def.value)
	}
	return cfg
}

// WriteDefaultConfig writes a default configuration file to configPath.
// An existing file is left untouched and reported as an error.
func WriteDefaultConfig(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("no config file path")
	}
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}
	return NewDefaultConfig(configPath).Save()
}

// Path returns the file the configuration was loaded from or will be saved to
func (c *Config) Path() string {
	return c.configPath
}

// GetScanConfig returns the scan configuration
func (c *Config) GetScanConfig() *ScanConfig {
	scanConfig := &ScanConfig{
		Hidden:      false,
		MinFileSize: DefaultMinFileSize,
	}

	if c.ini.HasSection("scan") {
		section := c.ini.Section("scan")
		if section.HasKey("hidden") {
			if hidden, err := section.Key("hidden").Bool(); err == nil {
				scanConfig.Hidden = hidden
			}
		}
		if section.HasKey("min_file_size") {
			if size, err := ParseHumanSize(section.Key("min_file_size").String()); err == nil {
				scanConfig.MinFileSize = size
			}
		}
	}

	return scanConfig
}

// GetCompareConfig returns the compare configuration
func (c *Config) GetCompareConfig() *CompareConfig {
	compareConfig := &CompareConfig{Safe: false}

	if c.ini.HasSection("compare") {
		section := c.ini.Section("compare")
		if section.HasKey("safe") {
			if safe, err := section.Key("safe").Bool(); err == nil {
				compareConfig.Safe = safe
			}
		}
	}

	return compareConfig
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Default: DefaultHashAlgorithm,
	}

	if c.ini.HasSection("filehash") {
		section := c.ini.Section("filehash")
		if section.HasKey("default") {
			hashConfig.Default = section.Key("default").String()
		}
	}

	return hashConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format: FormatHuman,
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			outputConfig.Format = section.Key("format").String()
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	performanceConfig := &PerformanceConfig{
		HashWorkers: 1,
		ReadBuffer:  "4K",
	}

	if c.ini.HasSection("performance") {
		section := c.ini.Section("performance")
		if section.HasKey("hash_workers") {
			if workers, err := section.Key("hash_workers").Int(); err == nil {
				performanceConfig.HashWorkers = workers
			}
		}
		if section.HasKey("read_buffer") {
			if bufferSize := section.Key("read_buffer").String(); bufferSize != "" {
				performanceConfig.ReadBuffer = bufferSize
			}
		}
	}

	return performanceConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Scan:        c.GetScanConfig(),
		Compare:     c.GetCompareConfig(),
		Hash:        c.GetHashConfig(),
		Output:      c.GetOutputConfig(),
		Verbose:     c.GetVerboseConfig(),
		Performance: c.GetPerformanceConfig(),
	}
}

// Save saves the configuration to disk, creating its directory
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config file path")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := c.ini.SaveTo(c.configPath); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "safe:true", "min_file_size:4K", "default:blake3", "format:json"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		sectionName, ok := overrideKeys[key]
		if !ok {
			return fmt.Errorf("unsupported override key '%s' (supported: hidden, min_file_size, safe, default, format, level, debug, hash_workers, read_buffer)", key)
		}
		c.ini.Section(sectionName).Key(key).SetValue(value)
	}

	return nil
}

// Validate checks every configured value, including values that the
// Get*Config accessors would silently replace by their default
func (c *Config) Validate() error {
	scan := c.ini.Section("scan")
	if scan.HasKey("hidden") {
		if _, err := scan.Key("hidden").Bool(); err != nil {
			return fmt.Errorf("invalid scan.hidden value '%s': %w", scan.Key("hidden").String(), err)
		}
	}
	if scan.HasKey("min_file_size") {
		size, err := ParseHumanSize(scan.Key("min_file_size").String())
		if err != nil {
			return fmt.Errorf("invalid scan.min_file_size: %w", err)
		}
		if err := ValidateMinFileSize(size); err != nil {
			return err
		}
	}

	compare := c.ini.Section("compare")
	if compare.HasKey("safe") {
		if _, err := compare.Key("safe").Bool(); err != nil {
			return fmt.Errorf("invalid compare.safe value '%s': %w", compare.Key("safe").String(), err)
		}
	}

	if err := ValidateHashAlgorithm(c.GetHashConfig().Default); err != nil {
		return err
	}
	if err := ValidateOutputFormat(c.GetOutputConfig().Format); err != nil {
		return err
	}

	verbose := c.ini.Section("verbose")
	if verbose.HasKey("level") {
		level, err := verbose.Key("level").Int()
		if err != nil {
			return fmt.Errorf("invalid verbose.level value '%s': %w", verbose.Key("level").String(), err)
		}
		if err := ValidateVerboseLevel(level); err != nil {
			return err
		}
	}
	if err := ValidateDebugFlags(c.GetVerboseConfig().Debug); err != nil {
		return err
	}

	performance := c.ini.Section("performance")
	if performance.HasKey("hash_workers") {
		workers, err := performance.Key("hash_workers").Int()
		if err != nil {
			return fmt.Errorf("invalid performance.hash_workers value '%s': %w", performance.Key("hash_workers").String(), err)
		}
		if err := ValidateHashWorkers(workers); err != nil {
			return err
		}
	}
	if err := ValidateReadBuffer(c.GetPerformanceConfig().ReadBuffer); err != nil {
		return err
	}

	return nil
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	if _, err := GetHashAlgorithm(algorithm); err != nil {
		return fmt.Errorf("unsupported hash algorithm: %s (supported: %s)",
			algorithm, strings.Join(SupportedHashAlgorithms(), ", "))
	}
	return nil
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatHuman, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateDebugFlags checks that every flag of a "name" or "name:value" list is known
func ValidateDebugFlags(debug string) error {
	for _, flag := range strings.Split(debug, ",") {
		name := strings.ToLower(strings.TrimSpace(strings.SplitN(flag, ":", 2)[0]))
		if name == "" {
			continue
		}
		known := false
		for _, candidate := range DebugFlagNames {
			if name == candidate {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("invalid debug flag: %s (supported: %s)", name, strings.Join(DebugFlagNames, ", "))
		}
	}
	return nil
}

// ValidateHashWorkers validates that the hash worker count is reasonable
func ValidateHashWorkers(workers int) error {
	if workers < 1 {
		return fmt.Errorf("hash workers must be at least 1, got: %d", workers)
	}
	if workers > 64 {
		return fmt.Errorf("hash workers should not exceed 64, got: %d", workers)
	}
	return nil
}

// ValidateMinFileSize validates the scan size threshold
func ValidateMinFileSize(size int64) error {
	if size < 0 {
		return fmt.Errorf("minimum file size must not be negative, got: %d", size)
	}
	return nil
}

// ValidateReadBuffer validates the full digest block size
func ValidateReadBuffer(sizeStr string) error {
	size, err := ParseHumanSize(sizeStr)
	if err != nil {
		return fmt.Errorf("invalid read buffer size: %w", err)
	}
	if size < 512 || size > 64*1024*1024 {
		return fmt.Errorf("read buffer must be between 512 bytes and 64M, got: %s", sizeStr)
	}
	return nil
}
