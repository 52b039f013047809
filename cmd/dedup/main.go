package main

import (
	"fmt"
	"io"
	"os"

	dedup "github.com/mattkeenan/dedup/pkg"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// defineOptions declares every command-line option
func defineOptions() *ParsedOptions {
	options := NewParsedOptions()

	options.DefineOption("help", "h", OptionTypeBool, "false", "Show help message")
	options.DefineOption("fast", "", OptionTypeBool, "false", "Compare the first and last 4 KiB only (default)")
	options.DefineOption("safe", "", OptionTypeBool, "false", "Also compare a digest of the whole content of large files")
	options.DefineOption("hidden", "", OptionTypeBool, "false", "Scan files and directories starting with '.'")
	options.DefineOption("skip-hidden", "", OptionTypeBool, "false", "Skip files and directories starting with '.' (default)")
	options.DefineOption("min-size", "", OptionTypeString, "", "Ignore files smaller than this (e.g. 1024, 4K, 1M)")
	options.DefineOption("hash", "", OptionTypeString, "", "Digest algorithm (sha1|sha256|sha512|sha3-256|blake3)")
	options.DefineOption("format", "", OptionTypeString, "", "Report format (human|json)")
	options.DefineOption("workers", "", OptionTypeInt, "", "Start digest prefetch workers")
	options.DefineOption("verbose", "v", OptionTypeCount, "0", "Enable verbose output (can be repeated for more verbosity)")
	options.DefineOption("debug", "", OptionTypeString, "", "Debug flags (scan,digest,compare,prefetch)")
	options.DefineOption("config", "", OptionTypeString, "", "Configuration file (default: ~/.config/dedup/dedup.conf)")
	options.DefineOption("ignore", "", OptionTypeString, "", "Ignore pattern file (default: ~/.config/dedup/dedup.ignore)")
	options.DefineOption("write-config", "", OptionTypeBool, "false", "Write a default configuration file and exit")

	return options
}

// run executes the command and returns the process exit status
func run(args []string, stdout, stderr io.Writer) int {
	dedup.SetLogOutput(stderr)

	options := defineOptions()
	if err := options.Parse(args); err != nil {
		fmt.Fprintf(stderr, "dedup: %v\n", err)
		fmt.Fprintf(stderr, "Try 'dedup --help' for more information.\n")
		return 1
	}

	if options.GetBool("help") {
		showHelp(stdout, options)
		return 0
	}

	configPath := options.GetString("config")
	if configPath == "" {
		configPath = dedup.DefaultConfigPath()
	}

	if options.GetBool("write-config") {
		if err := dedup.WriteDefaultConfig(configPath); err != nil {
			fmt.Fprintf(stderr, "dedup: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote default configuration to %s\n", configPath)
		return 0
	}

	cfg, err := dedup.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "dedup: %v\n", err)
		return 1
	}
	if err := cfg.ApplyOverrides(collectOverrides(options)); err != nil {
		fmt.Fprintf(stderr, "dedup: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "dedup: invalid configuration: %v\n", err)
		return 1
	}

	verboseConfig := cfg.GetVerboseConfig()
	dedup.SetVerboseLevel(verboseConfig.Level)
	dedup.InitDebugFlags(verboseConfig.Debug)
	dedup.LogDebugFlags()

	ignorePath := options.GetString("ignore")
	if ignorePath == "" {
		ignorePath = dedup.DefaultIgnorePath()
	}
	ignoreManager := dedup.NewIgnoreManager(ignorePath)
	if err := ignoreManager.LoadIgnorePatterns(); err != nil {
		fmt.Fprintf(stderr, "dedup: %s: %v\n", ignorePath, err)
		return 1
	}

	runOptions, err := dedup.OptionsFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "dedup: %v\n", err)
		return 1
	}
	runOptions.Ignorer = ignoreManager

	roots := options.GetArgs()
	if len(roots) == 0 {
		fmt.Fprintf(stderr, "dedup: no directory to scan\n")
		fmt.Fprintf(stderr, "Try 'dedup --help' for more information.\n")
		return 1
	}

	d, err := dedup.New(runOptions)
	if err != nil {
		fmt.Fprintf(stderr, "dedup: %v\n", err)
		return 1
	}

	report := d.Run(roots)
	if err := dedup.WriteReport(stdout, report, cfg.GetOutputConfig().Format); err != nil {
		fmt.Fprintf(stderr, "dedup: %v\n", err)
		return 1
	}

	return 0
}

// collectOverrides turns command-line options into configuration overrides.
// Of two opposite flags, the one given last wins, with its explicit value if any.
func collectOverrides(options *ParsedOptions) []string {
	var overrides []string

	switch options.Later("hidden", "skip-hidden") {
	case "hidden":
		overrides = append(overrides, fmt.Sprintf("hidden:%t", options.GetBool("hidden")))
	case "skip-hidden":
		overrides = append(overrides, fmt.Sprintf("hidden:%t", !options.GetBool("skip-hidden")))
	}

	switch options.Later("safe", "fast") {
	case "safe":
		overrides = append(overrides, fmt.Sprintf("safe:%t", options.GetBool("safe")))
	case "fast":
		overrides = append(overrides, fmt.Sprintf("safe:%t", !options.GetBool("fast")))
	}

	if options.IsSet("min-size") {
		overrides = append(overrides, "min_file_size:"+options.GetString("min-size"))
	}
	if options.IsSet("hash") {
		overrides = append(overrides, "default:"+options.GetString("hash"))
	}
	if options.IsSet("format") {
		overrides = append(overrides, "format:"+options.GetString("format"))
	}
	if options.IsSet("workers") {
		overrides = append(overrides, "hash_workers:"+options.GetString("workers"))
	}
	if options.IsSet("verbose") {
		overrides = append(overrides, fmt.Sprintf("level:%d", options.GetInt("verbose")))
	}
	if options.IsSet("debug") {
		overrides = append(overrides, "debug:"+options.GetString("debug"))
	}

	return overrides
}

func showHelp(w io.Writer, options *ParsedOptions) {
	fmt.Fprintf(w, "dedup - find duplicate files\n\n")
	fmt.Fprintf(w, "Usage: dedup [OPTIONS] <directory>...\n\n")

	fmt.Fprintf(w, "Scans every directory, compares regular files by size and content and\n")
	fmt.Fprintf(w, "prints one '# rm' suggestion per member of each group of identical files.\n")
	fmt.Fprintf(w, "Nothing is ever removed.\n\n")

	fmt.Fprintf(w, "Options:\n")
	options.ShowUsage(w)

	fmt.Fprintf(w, "\nFiles:\n")
	fmt.Fprintf(w, "  ~/.config/dedup/dedup.conf    Configuration (INI)\n")
	fmt.Fprintf(w, "  ~/.config/dedup/dedup.ignore  Glob patterns of paths to skip, one per line\n\n")

	fmt.Fprintf(w, "Examples:\n")
	fmt.Fprintf(w, "  dedup ~/photos /mnt/backup/photos\n")
	fmt.Fprintf(w, "  dedup --safe --hash=blake3 --workers=4 ~/data\n")
	fmt.Fprintf(w, "  dedup --format=json ~/data > dupes.json\n")
}
