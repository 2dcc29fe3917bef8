package gibscript

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
)

// LogLevel represents the severity of a log message (higher value = higher severity)
type LogLevel int

const (
	LevelTrace  LogLevel = iota // Detailed tracing (requires enabled + category)
	LevelInfo                   // Informational messages (requires enabled + category)
	LevelDebug                  // Development debugging (requires enabled + category)
	LevelNotice                 // Notable events (always shown)
	LevelWarn                   // Warnings (always shown)
	LevelError                  // Runtime errors (always shown)
	LevelFatal                  // Parse errors (always shown)
)

// LogCategory represents the subsystem generating the message
type LogCategory string

const (
	CatNone     LogCategory = ""         // Uncategorized
	CatParse    LogCategory = "parse"    // Line extraction and tokenizing
	CatCommand  LogCategory = "command"  // Command dispatch and registry
	CatVariable LogCategory = "variable" // Local and external variables
	CatArgument LogCategory = "argument" // Argument validation
	CatIO       LogCategory = "io"       // exec and the file built-ins
	CatAlias    LogCategory = "alias"    // Alias definition and expansion
	CatThread   LogCategory = "thread"   // Detached stacks
	CatMath     LogCategory = "math"     // Math expressions
	CatFlow     LogCategory = "flow"     // if, while, for, return
	CatSystem   LogCategory = "system"   // Scheduler and host glue
	CatUser     LogCategory = "user"     // User generated/custom
)

var allCategories = []LogCategory{
	CatParse, CatCommand, CatVariable, CatArgument, CatIO,
	CatAlias, CatThread, CatMath, CatFlow, CatSystem, CatUser,
}

// AllLogCategories returns every category except CatNone
func AllLogCategories() []LogCategory {
	return append([]LogCategory(nil), allCategories...)
}

// ANSI color codes for terminal output
const (
	colorYellow = "\x1b[93m" // Bright yellow foreground
	colorReset  = "\x1b[0m"  // Reset to default
)

// Logger handles script output and diagnostics for the interpreter
type Logger struct {
	enabled           bool
	enabledCategories map[LogCategory]bool
	out               io.Writer
	errOut            io.Writer
	// colorEnabled is true if terminal colors should be used for stderr output
	colorEnabled bool
	backendsMu   sync.Mutex
	backends     map[LogCategory]commonlog.Logger
}

// NewLogger creates a new logger writing to stdout and stderr
func NewLogger(enabled bool) *Logger {
	return &Logger{
		enabled:           enabled,
		enabledCategories: make(map[LogCategory]bool),
		out:               os.Stdout,
		errOut:            os.Stderr,
		colorEnabled:      StderrSupportsColor(),
		backends:          make(map[LogCategory]commonlog.Logger),
	}
}

// SetOutput redirects script output and diagnostics. Color is only kept when
// errOut is still the process's stderr.
func (l *Logger) SetOutput(out, errOut io.Writer) {
	if out != nil {
		l.out = out
	}
	if errOut != nil {
		l.errOut = errOut
		if errOut != io.Writer(os.Stderr) {
			l.colorEnabled = false
		}
	}
}

// EnableCategory enables debug logging for a specific category
func (l *Logger) EnableCategory(cat LogCategory) {
	l.enabledCategories[cat] = true
}

// EnableAllCategories enables all categories for debug logging
func (l *Logger) EnableAllCategories() {
	for _, cat := range allCategories {
		l.enabledCategories[cat] = true
	}
}

// shouldLog determines if a message should be logged based on level and category
func (l *Logger) shouldLog(level LogLevel, cat LogCategory) bool {
	switch level {
	case LevelFatal, LevelError, LevelWarn, LevelNotice:
		return true
	case LevelDebug, LevelInfo, LevelTrace:
		return l.enabled && (cat == CatNone || l.enabledCategories[cat])
	default:
		return false
	}
}

// backend returns the commonlog logger for a category, e.g. "gib.flow"
func (l *Logger) backend(cat LogCategory) commonlog.Logger {
	l.backendsMu.Lock()
	defer l.backendsMu.Unlock()
	if b, ok := l.backends[cat]; ok {
		return b
	}
	name := "gib"
	if cat != CatNone {
		name += "." + string(cat)
	}
	b := commonlog.GetLogger(name)
	l.backends[cat] = b
	return b
}

// Log is the unified logging method
func (l *Logger) Log(level LogLevel, cat LogCategory, message string) {
	if !l.shouldLog(level, cat) {
		return
	}

	catSuffix := ""
	if cat != CatNone {
		catSuffix = ":" + string(cat)
	}

	// Low severities belong to the diagnostic backend, which the host configures
	switch level {
	case LevelTrace, LevelDebug:
		l.backend(cat).Debugf("%s", message)
		return
	case LevelInfo:
		l.backend(cat).Infof("%s", message)
		return
	}

	var prefix string
	switch level {
	case LevelNotice:
		prefix = fmt.Sprintf("[GIB%s NOTICE]", catSuffix)
	case LevelWarn:
		prefix = fmt.Sprintf("[GIB%s WARN]", catSuffix)
	default:
		prefix = fmt.Sprintf("[GIB%s ERROR]", catSuffix)
	}
	if l.colorEnabled {
		fmt.Fprintf(l.errOut, "%s%s %s%s\n", colorYellow, prefix, message, colorReset)
	} else {
		fmt.Fprintf(l.errOut, "%s %s\n", prefix, message)
	}
}

// Print writes script output verbatim
func (l *Logger) Print(s string) {
	_, _ = io.WriteString(l.out, s)
}

// Printf writes formatted script output
func (l *Logger) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(l.out, format, args...)
}

// ErrorCat logs a categorized error message
func (l *Logger) ErrorCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelError, cat, fmt.Sprintf(format, args...))
}

// WarnCat logs a categorized warning message
func (l *Logger) WarnCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelWarn, cat, fmt.Sprintf(format, args...))
}

// DebugCat logs a categorized debug message
func (l *Logger) DebugCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelDebug, cat, fmt.Sprintf(format, args...))
}

// TraceCat logs a categorized trace message
func (l *Logger) TraceCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelTrace, cat, fmt.Sprintf(format, args...))
}

// CommandError logs a command execution error with category
func (l *Logger) CommandError(cat LogCategory, cmdName, message string) {
	if cmdName != "" {
		message = fmt.Sprintf("%s: %s", strings.ToUpper(cmdName), message)
	}
	l.Log(LevelError, cat, message)
}
