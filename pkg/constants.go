package dedup

// Content sampling constants
const (
	PartialSize        = 4 * 1024 // Bytes hashed for the start and end digests
	DefaultReadBuffer  = 4 * 1024 // Block size used when streaming a full-content digest
	DefaultMinFileSize = 1024     // Files smaller than this are never registered
)

// Initial capacities; both structures double from here
const (
	initialArenaCapacity    = 16 * 1024
	initialRegistryCapacity = 1024
)

// User configuration file locations, relative to $HOME
const (
	ConfigDir  = ".config/dedup"
	ConfigFile = "dedup.conf"
	IgnoreFile = "dedup.ignore"
)

// Output formats
const (
	FormatHuman = "human"
	FormatJSON  = "json"
)

// Hash size constants
const (
	HashSizeSHA1    = 20
	HashSizeSHA256  = 32
	HashSizeSHA512  = 64
	HashSizeSHA3256 = 32
	HashSizeBLAKE3  = 32

	MaxDigestSize = 64 // Storage reserved per digest tier (512 bits)
)

// DefaultHashAlgorithm is the 160-bit hash used unless configured otherwise
const DefaultHashAlgorithm = "sha1"
