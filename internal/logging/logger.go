// Package logging holds the process-wide charmbracelet logger. The client
// writes to a dated file because the TUI owns the terminal; the proxy writes
// to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Retention is how long dated log files are kept before Init prunes them.
const Retention = 7 * 24 * time.Hour

const dateLayout = "2006-01-02"

var (
	// Logger is the global logger. Nil until Init or InitWriter.
	Logger *log.Logger

	logFile *os.File
)

// Init opens <dir>/<name>-<date>.log for appending, removes files of the
// same name older than Retention, and points Logger at the file.
func Init(dir, name, level string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	now := time.Now()
	prune(dir, name, now)

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.log", name, now.Format(dateLayout)))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f

	InitWriter(f, level)
	Logger.Info("started", "name", name, "pid", os.Getpid())
	return nil
}

// prune deletes <name>-<date>.log files dated before now-Retention. Files
// that do not parse as dated logs are left alone.
func prune(dir, name string, now time.Time) {
	matches, err := filepath.Glob(filepath.Join(dir, name+"-*.log"))
	if err != nil {
		return
	}
	cutoff := now.Add(-Retention)
	for _, m := range matches {
		stamp := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), name+"-"), ".log")
		day, err := time.ParseInLocation(dateLayout, stamp, now.Location())
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			os.Remove(m)
		}
	}
}

// InitWriter points Logger at w. Unknown levels fall back to info.
func InitWriter(w io.Writer, level string) {
	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           ParseLevel(level),
	})
}

// ParseLevel maps a config string to a level.
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Close logs shutdown and releases the file opened by Init.
func Close() {
	if Logger != nil {
		Logger.Info("shutting down")
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

var discard = log.New(io.Discard)

// current never returns nil, so the helpers below work before Init.
func current() *log.Logger {
	if Logger == nil {
		return discard
	}
	return Logger
}

func Info(msg string, keyvals ...any)  { current().Info(msg, keyvals...) }
func Debug(msg string, keyvals ...any) { current().Debug(msg, keyvals...) }
func Warn(msg string, keyvals ...any)  { current().Warn(msg, keyvals...) }
func Error(msg string, keyvals ...any) { current().Error(msg, keyvals...) }

// WithPrefix returns a sub-logger tagged with prefix.
func WithPrefix(prefix string) *log.Logger {
	return current().WithPrefix(prefix)
}
