// Package logging configures the logrus logger shared by the CLI, the TUI and
// the background workers.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string
	// File is the rotating log file. Empty disables file logging.
	File string
	// Stderr sends logs to stderr instead of the file.
	Stderr bool
}

// New builds a logger. The TUI owns stdout, so logs go to a rotating file
// unless Stderr is set. With neither, logs are discarded.
func New(opts Options) (*logrus.Logger, io.Closer) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: !opts.Stderr})
	lvl, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	switch {
	case opts.Stderr:
		l.SetOutput(os.Stderr)
		return l, nopCloser{}
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			l.SetOutput(io.Discard)
			return l, nopCloser{}
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
		l.SetOutput(lj)
		return l, lj
	default:
		l.SetOutput(io.Discard)
		return l, nopCloser{}
	}
}

// Discard returns a logger that drops everything, for tests and library defaults.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
