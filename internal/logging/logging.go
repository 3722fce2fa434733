package logging

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CreateLogger creates a logger that can be passed around to components.
// Components derive their own entry with WithField("component", name).
func CreateLogger(level string, out io.Writer) (*logrus.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse logging level %q", level)
	}

	logger := logrus.New()
	logger.Level = lvl
	if out != nil {
		logger.Out = out
	}
	logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	return logger, nil
}

// Discard returns an entry that drops everything, for tests and optional collaborators.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.Out = io.Discard
	return logrus.NewEntry(logger)
}
