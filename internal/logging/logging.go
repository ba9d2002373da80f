package logging

import (
	"io"
	"log/slog"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Level maps the number of -d flags to a log level
func Level(verbosity int) charmlog.Level {
	switch {
	case verbosity <= 0:
		return charmlog.WarnLevel
	case verbosity == 1:
		return charmlog.InfoLevel
	default:
		return charmlog.DebugLevel
	}
}

// Setup installs a charmbracelet/log logger writing to w as the slog default
func Setup(verbosity int, w io.Writer) *charmlog.Logger {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           Level(verbosity),
		ReportCaller:    verbosity >= 3,
		ReportTimestamp: verbosity >= 2,
		TimeFormat:      time.TimeOnly,
		Prefix:          "snip",
	})

	charmlog.SetDefault(logger)
	slog.SetDefault(slog.New(logger))
	return logger
}
