// Package logging builds the structured logger shared by the service and
// the CLI.
package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/gravitas-games/hexgeo/internal/config"
)

// New returns a logger writing to w at the configured level and format.
func New(cfg config.LogConfig, w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "hexgeo",
		Level:           level,
		ReportTimestamp: true,
	})

	switch cfg.Format {
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(log.LogfmtFormatter)
	case "", "text":
		logger.SetFormatter(log.TextFormatter)
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
	return logger, nil
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
