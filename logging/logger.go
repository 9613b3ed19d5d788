// Package logging provides the Logger used across shardstore, backed by logrus.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the leveled logging surface the store and shard write to.
type Logger interface {
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

var _ Logger = (*stdLogger)(nil)

type stdLogger struct {
	entry *logrus.Entry
}

func (l *stdLogger) Info(args ...interface{})                  { l.entry.Info(args...) }
func (l *stdLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *stdLogger) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l *stdLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *stdLogger) Warn(args ...interface{})                  { l.entry.Warn(args...) }
func (l *stdLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *stdLogger) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l *stdLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

var _ Logger = (*suppressedLogger)(nil)

type suppressedLogger struct{}

func (suppressedLogger) Info(args ...interface{})                  {}
func (suppressedLogger) Infof(format string, args ...interface{})  {}
func (suppressedLogger) Debug(args ...interface{})                 {}
func (suppressedLogger) Debugf(format string, args ...interface{}) {}
func (suppressedLogger) Warn(args ...interface{})                  {}
func (suppressedLogger) Warnf(format string, args ...interface{})  {}
func (suppressedLogger) Error(args ...interface{})                 {}
func (suppressedLogger) Errorf(format string, args ...interface{}) {}

// Nop returns a Logger that drops everything.
func Nop() Logger { return suppressedLogger{} }

// New creates a logger writing to stdout. Every line carries a "component"
// field set to name. suppressed returns Nop(); debug enables debug level.
func New(name string, suppressed, debug bool) Logger {
	return NewWithOutput(os.Stdout, name, suppressed, debug)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(w io.Writer, name string, suppressed, debug bool) Logger {
	if suppressed {
		return Nop()
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}

	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		PadLevelText:    true,
	})

	return &stdLogger{entry: l.WithField("component", name)}
}
