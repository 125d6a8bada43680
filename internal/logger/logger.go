// Package logger provides the leveled diagnostic logger. Messages go to
// standard error because standard output is the protocol channel to the
// host.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// EnvVar selects the log level, like MDBOOK_FILES_LOG=debug.
const EnvVar = "MDBOOK_FILES_LOG"

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// Logger writes timestamped, level-filtered messages. It is safe for
// concurrent use. Colors are enabled only when writing to a terminal.
type Logger struct {
	writer io.Writer
	level  int
	color  bool
	mu     sync.Mutex
}

// New creates a Logger writing to w at the given level. An empty or unknown
// level defaults to warn, keeping preprocessor runs quiet unless asked.
func New(w io.Writer, level string) *Logger {
	return &Logger{
		writer: w,
		level:  parseLevel(level),
		color:  (w == os.Stderr || w == os.Stdout) && !color.NoColor,
	}
}

// FromEnv creates the standard stderr logger configured by EnvVar.
func FromEnv() *Logger {
	return New(os.Stderr, os.Getenv(EnvVar))
}

func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelWarn
	}
}

func (l *Logger) logf(level int, label string, paint *color.Color, format string, args ...any) {
	if l == nil || l.writer == nil || level < l.level {
		return
	}
	if l.color {
		label = paint.Sprint(label)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer, "[%s] %s %s\n", time.Now().Format("15:04:05"), label, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logf(levelDebug, "DEBUG", color.New(color.FgCyan), format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.logf(levelInfo, "INFO", color.New(color.FgGreen), format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logf(levelWarn, "WARN", color.New(color.FgYellow), format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logf(levelError, "ERROR", color.New(color.FgRed), format, args...)
}
