// Package jslog is the structured-logging glue between the stable
// error-code taxonomy in internal/jserr and the teacher's logrus-based
// logging setup (cmd/root.go's newGlobalState/consoleWriter stack).
package jslog

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/speedboat/jsrt/internal/jserr"
)

// New builds a *logrus.Logger writing to out at level, formatted the same
// way cmd/root.go configures its own loggers (plain TextFormatter; TTY
// detection and coloring are consoleWriter's job, not this package's).
func New(out io.Writer, level logrus.Level) *logrus.Logger {
	return &logrus.Logger{
		Out:       out,
		Formatter: &logrus.TextFormatter{},
		Hooks:     make(logrus.LevelHooks),
		Level:     level,
	}
}

// WithError attaches err to a log entry, adding a "code" field whenever err
// (or something it wraps) is a *jserr.Error, per SPEC_FULL.md §1: "errors
// carrying a stable code string are logged with a code field."
func WithError(logger logrus.FieldLogger, err error) *logrus.Entry {
	entry := logger.WithError(err)
	var coded *jserr.Error
	if errors.As(err, &coded) {
		entry = entry.WithField("code", string(coded.Code))
	}
	return entry
}
