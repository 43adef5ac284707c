package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a slog.Logger that writes leveled, timestamped lines to w.
func New(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
	})
	return slog.New(handler), nil
}

// Setup installs the logger from New as the slog default. slog.SetDefault
// reroutes the log package through the new handler, so log is pointed back at
// errw afterwards: fatal errors must show up whatever the level.
func Setup(w, errw io.Writer, level string) error {
	logger, err := New(w, level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	stdlog.SetOutput(errw)
	stdlog.SetFlags(stdlog.LstdFlags)
	return nil
}
