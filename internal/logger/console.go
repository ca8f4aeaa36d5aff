// Package logger provides leveled console logging for fskit.
//
// Output is timestamped, thread-safe, and filtered by a minimum log level.
// Color is applied automatically when writing to a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs messages to a writer with [HH:MM:SS] timestamps and
// thread safety. It supports log level filtering to control verbosity.
// Color output is automatically enabled for terminal output.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// logLevel determines the minimum log level for messages to be output.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// Default returns a logger writing to stderr at info level.
func Default() *ConsoleLogger {
	return NewConsoleLogger(os.Stderr, "info")
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	// color.NoColor also honors the NO_COLOR env var
	return !color.NoColor && isatty.IsTerminal(f.Fd())
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if validLevels[normalized] {
		return normalized
	}

	return "info" // Default level
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// levelColor returns the color used for a level tag, or nil for none.
func levelColor(level string) *color.Color {
	switch level {
	case "warn":
		return color.New(color.FgYellow)
	case "error":
		return color.New(color.FgRed)
	case "debug", "trace":
		return color.New(color.FgCyan)
	default:
		return nil
	}
}

// log writes a single formatted message if it passes the level filter.
func (cl *ConsoleLogger) log(level, format string, args ...interface{}) {
	if cl.writer == nil || !cl.shouldLog(level) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	timestamp := time.Now().Format("15:04:05")
	tag := strings.ToUpper(level)
	if cl.colorOutput {
		if c := levelColor(level); c != nil {
			tag = c.Sprint(tag)
		}
	}
	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(cl.writer, "[%s] %s %s\n", timestamp, tag, message)
}

// Tracef logs at trace level.
func (cl *ConsoleLogger) Tracef(format string, args ...interface{}) {
	cl.log("trace", format, args...)
}

// Debugf logs at debug level.
func (cl *ConsoleLogger) Debugf(format string, args ...interface{}) {
	cl.log("debug", format, args...)
}

// Infof logs at info level.
func (cl *ConsoleLogger) Infof(format string, args ...interface{}) {
	cl.log("info", format, args...)
}

// Warnf logs at warn level.
func (cl *ConsoleLogger) Warnf(format string, args ...interface{}) {
	cl.log("warn", format, args...)
}

// Errorf logs at error level.
func (cl *ConsoleLogger) Errorf(format string, args ...interface{}) {
	cl.log("error", format, args...)
}
