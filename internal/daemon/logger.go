package daemon

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// NewLogger returns a slog logger backed by a charm log handler that
// writes timestamped lines to w. level is a config log_level value.
func NewLogger(w io.Writer, level string) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(level string) log.Level {
	if level == "warning" {
		level = "warn"
	}
	l, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}
