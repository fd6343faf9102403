// Package logging sets up the application logger. The TUI owns the
// terminal, so logs go to a rotated file.
package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// EnvLevel overrides the log level, e.g. FORKIFY_LOG_LEVEL=debug.
const EnvLevel = "FORKIFY_LOG_LEVEL"

// ErrNoPath is returned when no log file path is given.
var ErrNoPath = errors.New("log file path is empty")

// Params holds parameters for creating a logger.
type Params struct {
	Path       string
	Level      string // optional, defaults to "info"
	MaxSizeMB  int    // optional, defaults to 10
	MaxBackups int    // optional, defaults to 3
}

// New creates a logger writing text lines to params.Path. The returned
// close func flushes and closes the file.
func New(params Params) (*logrus.Logger, func() error, error) {
	if params.Path == "" {
		return nil, nil, ErrNoPath
	}
	if err := os.MkdirAll(filepath.Dir(params.Path), 0755); err != nil {
		return nil, nil, err
	}

	level := logrus.InfoLevel
	if params.Level != "" {
		parsed, err := logrus.ParseLevel(strings.TrimSpace(params.Level))
		if err != nil {
			return nil, nil, err
		}
		level = parsed
	}

	maxSize := params.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxBackups := params.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}

	out := &lumberjack.Logger{
		Filename:   params.Path,
		MaxSize:    maxSize, // megabytes
		MaxBackups: maxBackups,
		MaxAge:     28, // days
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return log, out.Close, nil
}

// DefaultPath returns the default log path inside the data directory.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "forkify.log")
}
