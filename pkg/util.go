package dedup

import (
	"fmt"
	"strconv"
	"strings"
)

// sizeUnit is one step of the report size scale
type sizeUnit struct {
	threshold int64 // Minimum number of units
	scale     int64
	name      string
}

// sizeUnits is ordered from largest to smallest
var sizeUnits = []sizeUnit{
	{4, 1024 * 1024 * 1024, "Gb"},
	{4, 1024 * 1024, "Mb"},
	{4, 1024, "Kb"},
	{0, 1, "bytes"},
}

// FormatSizeUnit renders size in the largest unit it holds at least four
// times, truncating: 3000 -> "3000 bytes", 5000 -> "4 Kb", 5 MiB -> "5 Mb"
func FormatSizeUnit(size int64) string {
	for _, unit := range sizeUnits {
		if size >= unit.threshold*unit.scale {
			return fmt.Sprintf("%d %s", size/unit.scale, unit.name)
		}
	}
	return fmt.Sprintf("%d bytes", size)
}

// ParseHumanSize parses human-readable size strings (e.g., "2M", "512k", "1G")
func ParseHumanSize(sizeStr string) (int64, error) {
	if sizeStr == "" {
		return 0, fmt.Errorf("empty size string")
	}

	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))

	// Split numeric part and suffix
	var numPart string
	var suffix string
	for i, char := range sizeStr {
		if char >= '0' && char <= '9' || char == '.' {
			numPart += string(char)
		} else {
			suffix = strings.TrimSpace(sizeStr[i:])
			break
		}
	}

	if numPart == "" {
		return 0, fmt.Errorf("no numeric part in size string: %s", sizeStr)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric part in size string %s: %w", sizeStr, err)
	}

	var multiplier int64 = 1
	switch suffix {
	case "", "B", "BYTES":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size suffix: %s", suffix)
	}

	if num*float64(multiplier) > float64(int64(^uint64(0)>>1)) {
		return 0, fmt.Errorf("size too large: %s", sizeStr)
	}
	result := int64(num * float64(multiplier))
	if result < 0 {
		return 0, fmt.Errorf("size must not be negative: %s", sizeStr)
	}

	return result, nil
}

// memoryUsageMb is the storage reserved by arena and registry in whole MiB
func memoryUsageMb(arena *NameArena, registry *Registry) int64 {
	return int64(arena.MemoryUsage()+registry.MemoryUsage()) / (1024 * 1024)
}
