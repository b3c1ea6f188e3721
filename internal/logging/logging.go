// Package logging builds the structured logger used across commands.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// New returns a slog logger backed by a charmbracelet/log handler.
func New(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
	})
	return slog.New(handler), nil
}

// ParseLevel accepts debug, info, warn or error. Empty means DefaultLevel.
func ParseLevel(level string) (log.Level, error) {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q", level)
	}
	return lvl, nil
}

// OpenFile creates a dated log file in dir and a logger writing to it. The
// caller closes the returned file.
func OpenFile(dir, level string) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	name := fmt.Sprintf("pentrust-%s.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger, err := New(file, level)
	if err != nil {
		if cerr := file.Close(); cerr != nil {
			_ = cerr
		}
		return nil, nil, err
	}
	return logger, file, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
