// ABOUTME: Logging setup on logrus
// ABOUTME: Routes logs to stderr, a file, or only the file while the TUI owns the terminal
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/netradio-go/netradio/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup configures the logger and returns a closer for the log file.
// With the TUI active, logs go to the file only, or are discarded when
// no file is configured.
func Setup(logger *log.Logger, cfg config.LoggingConfig, tui bool) (io.Closer, error) {
	level, err := log.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.JSON {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
			DisableColors: cfg.File != "" && tui,
		})
	}

	if cfg.File == "" {
		if tui {
			logger.SetOutput(io.Discard)
		} else {
			logger.SetOutput(os.Stderr)
		}
		return nopCloser{}, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, errors.Wrap(err, "open log file")
	}

	if tui {
		// TUI mode: log only to file
		logger.SetOutput(f)
	} else {
		logger.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	return f, nil
}
