// Package applog builds the process logger. Logging is off unless a file is
// configured: the terminal itself is the user interface, so nothing may be
// written to stderr while a session runs.
package applog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to path, or a discarding logger when path is
// empty. The returned closer releases the file and is never nil.
func New(path string) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	path = strings.TrimSpace(path)
	if path == "" {
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.PanicLevel)
		return log, nopCloser{}, nil
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetLevel(logrus.DebugLevel)
	return log, f, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log, _, _ := New("")
	return log
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
