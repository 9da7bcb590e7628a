package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Initial returns the single-letter marker used in the log line format.
func (l LogLevel) Initial() byte {
	switch l {
	case LevelDebug:
		return 'D'
	case LevelWarn:
		return 'W'
	case LevelError:
		return 'E'
	default:
		return 'I'
	}
}

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel converts a configuration level string ("debug", "info", "warn",
// "error", case insensitive) to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

var (
	mu            sync.Mutex
	defaultLogger *slog.Logger
	logFile       *os.File
)

// Init activates logging from a resolved configuration mapping, as produced
// by BuildConfig. The log file named by handlers.file.filename is opened in
// append mode and installed as the destination of the default logger. A
// previously opened log file is closed.
func Init(cfg map[string]any) error {
	level := LevelInfo
	if raw, ok := cfg["level"].(string); ok {
		parsed, err := ParseLevel(raw)
		if err != nil {
			return err
		}
		level = parsed
	}

	path := configuredLogFile(cfg)
	if path == "" {
		return fmt.Errorf("logging configuration names no log file")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	defaultLogger = slog.New(newLineHandler(f, level))
	slog.SetDefault(defaultLogger)
	return nil
}

// InitWriter activates logging directly to a writer. Used by tests and by
// tooling that has no log file of its own.
func InitWriter(level LogLevel, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logFile = nil
	defaultLogger = slog.New(newLineHandler(w, level))
	slog.SetDefault(defaultLogger)
}

// Close flushes and closes the active log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Initialized reports whether logging has been activated. Fatal aborts that
// happen before this point must write to stderr instead.
func Initialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return defaultLogger != nil
}

// configuredLogFile digs handlers.file.filename out of the config mapping.
func configuredLogFile(cfg map[string]any) string {
	handlers, ok := cfg["handlers"].(map[string]any)
	if !ok {
		return ""
	}
	file, ok := handlers["file"].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := file["filename"].(string)
	return name
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	mu.Lock()
	logger := defaultLogger
	mu.Unlock()

	if logger == nil || !logger.Enabled(context.Background(), level.SlogLevel()) {
		return
	}

	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	attrs := []slog.Attr{slog.String("subsystem", subsystem)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	logger.LogAttrs(context.Background(), level.SlogLevel(), msg, attrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}
