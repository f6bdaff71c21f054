package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Supported log formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New creates a logger writing to stderr with the given level and format
func New(level, format string) (*logrus.Logger, error) {
	return NewWithOutput(os.Stderr, level, format)
}

// NewWithOutput creates a logger writing to out
func NewWithOutput(out io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q (supported: text, json)", format)
	}

	return logger, nil
}

// Discard returns a logger that drops everything, for tests and library defaults
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Component returns an entry tagged with the component name
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	if logger == nil {
		logger = Discard()
	}
	return logger.WithField("component", name)
}
