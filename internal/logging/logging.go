// Package logging owns the process-wide logrus logger. The terminal belongs to
// the dashboard while it runs, so Setup points output at a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvLevel overrides the configured level, e.g. NIMBUS_LOG_LEVEL=debug.
const EnvLevel = "NIMBUS_LOG_LEVEL"

// Logger is the process-wide logger. Setup redirects it to the log file.
var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stderr)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	Logger.SetLevel(logrus.InfoLevel)
}

// WithComponent adds a component field to the logger.
func WithComponent(component string) *logrus.Entry {
	return Logger.WithField("component", component)
}

// Setup sends log output to path (created if needed) at the given level. The
// returned func closes the file. An empty path keeps the current output.
func Setup(path, level string) (func() error, error) {
	if err := SetLevel(level); err != nil {
		return nil, err
	}
	if env := strings.TrimSpace(os.Getenv(EnvLevel)); env != "" {
		if err := SetLevel(env); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLevel, err)
		}
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	Logger.SetOutput(file)
	return file.Close, nil
}

// SetLevel parses and applies a level name. Blank leaves the level unchanged.
func SetLevel(level string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		return nil
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	Logger.SetLevel(parsed)
	return nil
}
