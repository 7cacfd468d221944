// Package logging builds the leveled logger shared by the CLI, the store and
// the report service.
package logging

import (
	"fmt"
	"io"
	"strings"

	clog "github.com/charmbracelet/log"
)

// Level names accepted by ParseLevel.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// New returns a logger writing to w at the named level.
// An empty level means info.
func New(w io.Writer, level string) (*clog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l := clog.NewWithOptions(w, clog.Options{
		Level:           lvl,
		Prefix:          "visit2pdf",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	return l, nil
}

// Discard returns a logger that drops every record.
func Discard() *clog.Logger {
	return clog.NewWithOptions(io.Discard, clog.Options{Level: clog.FatalLevel})
}

// ParseLevel maps a level name to a charmbracelet/log level.
func ParseLevel(level string) (clog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", LevelInfo:
		return clog.InfoLevel, nil
	case LevelDebug:
		return clog.DebugLevel, nil
	case LevelWarn, "warning":
		return clog.WarnLevel, nil
	case LevelError:
		return clog.ErrorLevel, nil
	default:
		return clog.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// Resolve picks the effective level name: --verbose wins over --quiet,
// and either wins over the configured level.
func Resolve(configured string, verbose, quiet bool) string {
	switch {
	case verbose:
		return LevelDebug
	case quiet:
		return LevelError
	case configured == "":
		return LevelInfo
	default:
		return configured
	}
}
