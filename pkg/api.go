package dedup

// InitDebugFlags enables the configured debug flags; an empty string leaves them unchanged
func InitDebugFlags(flagsStr string) {
	if flagsStr != "" {
		SetDebugFlags(flagsStr)
	}
}

// LogDebugFlags logs the current debug flag status
func LogDebugFlags() {
	for _, flag := range DebugFlagNames {
		if IsDebugEnabled(flag) {
			VerboseLog(1, "Debug flag enabled: %s", flag)
		}
	}
}
