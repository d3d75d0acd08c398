// Package logging configures the structured logger shared by the server and CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds logger configuration.
type Options struct {
	Level           string
	Format          string
	Prefix          string
	ReportTimestamp bool
	Output          io.Writer
}

// DebugEnabled returns true if debug mode is forced via the LIFEOS_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("LIFEOS_DEBUG") != ""
}

// New builds a logger from opts. Output defaults to stderr.
func New(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := ParseLevel(opts.Level)
	if DebugEnabled() {
		level = log.DebugLevel
	}

	return log.NewWithOptions(out, log.Options{
		Level:           level,
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Setup builds a logger and installs it as the package default.
func Setup(opts Options) *log.Logger {
	logger := New(opts)
	log.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name onto a log.Level, falling back to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter maps a format name onto a log.Formatter, falling back to text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// Debugf writes a debug message through the default logger
func Debugf(format string, args ...interface{}) {
	log.Default().Debugf(format, args...)
}
