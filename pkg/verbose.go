package dedup

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
)

var globalVerboseLevel int
var debugFlags map[string]bool
var logOutput io.Writer = os.Stderr

// logMu serialises writes to logOutput; prefetch workers log concurrently
var logMu sync.Mutex

// DebugFlagNames lists the debug flags the package checks
var DebugFlagNames = []string{"scan", "digest", "compare", "prefetch", "arena", "registry"}

// fatalExit terminates the process after a fatal message has been logged
var fatalExit = func() { os.Exit(1) }

// SetVerboseLevel sets the global verbose level
func SetVerboseLevel(level int) {
	globalVerboseLevel = level
}

// GetVerboseLevel returns the current verbose level
func GetVerboseLevel() int {
	return globalVerboseLevel
}

// SetLogOutput redirects verbose, warning and fatal messages
func SetLogOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logMu.Lock()
	logOutput = w
	logMu.Unlock()
}

// writeLog writes one complete message with a single Write call
func writeLog(msg string) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	logMu.Lock()
	defer logMu.Unlock()
	io.WriteString(logOutput, msg)
}

// VerboseEnter logs function entry at level 3+ and returns a defer function for exit logging
func VerboseEnter() func() {
	if globalVerboseLevel < 3 {
		return func() {} // No-op
	}

	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return func() {}
	}

	funcName := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(funcName, "."); idx != -1 {
		funcName = funcName[idx+1:]
	}

	writeLog("[TRACE] Entering function: " + funcName)

	return func() {
		writeLog("[TRACE] Exiting function: " + funcName)
	}
}

// VerboseLog logs a message at the specified verbose level
func VerboseLog(level int, format string, args ...interface{}) {
	if globalVerboseLevel >= level {
		writeLog(fmt.Sprintf("[VERBOSE-%d] ", level) + fmt.Sprintf(format, args...))
	}
}

// Warnf reports a recoverable per-entry problem to the operator.
// It is printed regardless of the verbose level.
func Warnf(format string, args ...interface{}) {
	writeLog(fmt.Sprintf(format, args...))
}

// warnPath reports err against path, perror style
func warnPath(path string, err error) {
	Warnf("%s: %v", path, unwrapPathError(err))
}

// unwrapPathError drops the op/path decoration of *os.PathError so the
// operator sees the path only once
func unwrapPathError(err error) error {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err
	}
	return err
}

// fatalf logs an unrecoverable condition and terminates the process
func fatalf(format string, args ...interface{}) {
	Warnf(format, args...)
	fatalExit()
}

// SetDebugFlags sets the debug flags from a comma-separated string
// Supports both simple flags ("scan,digest") and key:value format ("scan:true,digest:false")
func SetDebugFlags(flagsStr string) {
	debugFlags = make(map[string]bool)
	if flagsStr == "" {
		return
	}

	flags := strings.Split(flagsStr, ",")
	for _, flag := range flags {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}

		parts := strings.SplitN(flag, ":", 2)
		flagName := strings.ToLower(parts[0])
		flagValue := true

		if len(parts) > 1 {
			switch strings.ToLower(parts[1]) {
			case "true", "1", "yes", "on":
				flagValue = true
			case "false", "0", "no", "off":
				flagValue = false
			default:
				flagValue = true // Default to true for unknown values
			}
		}

		debugFlags[flagName] = flagValue
	}
}

// IsDebugEnabled returns true if the specified debug flag is enabled
func IsDebugEnabled(flag string) bool {
	if debugFlags == nil {
		return false
	}
	return debugFlags[strings.ToLower(flag)]
}
