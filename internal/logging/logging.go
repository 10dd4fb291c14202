package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/TimelordUK/mdiff/internal/config"
)

// EnvLogFile overrides the configured log file when set
const EnvLogFile = "MDIFF_LOG_FILE"

// Logger wraps a slog.Logger with the file it writes to
type Logger struct {
	*slog.Logger
	file *os.File
}

// New creates a logger from config. The terminal belongs to the UI, so
// records only go to a file; without one the logger discards everything.
func New(cfg config.LogConfig) (*Logger, error) {
	path := os.Getenv(EnvLogFile)
	if path == "" {
		path = cfg.File
	}
	if path == "" {
		return Discard(), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}

	return &Logger{
		Logger: newLogger(f, cfg.Level),
		file:   f,
	}, nil
}

// Discard returns a logger that drops every record
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// Close closes the underlying log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps a config level name to a slog level (default info)
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
