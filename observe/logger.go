package observe

import "github.com/sirupsen/logrus"

// Fields carries structured key/value pairs attached to a log line.
type Fields map[string]any

// Logger is the logging sink consumed by the engine. Implementations are
// fire-and-forget: they must never block the caller or affect control flow.
type Logger interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
}

// NopLogger discards everything. Useful as a default for library consumers
// that bring their own logging.
type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

// logrusLogger adapts a logrus logger to the Logger interface.
type logrusLogger struct {
	l *logrus.Logger
}

// NewLogrusLogger wraps a logrus logger. A nil argument uses the logrus
// standard logger.
func NewLogrusLogger(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &logrusLogger{l: l}
}

func (a *logrusLogger) Debug(msg string, fields Fields) {
	a.l.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (a *logrusLogger) Info(msg string, fields Fields) {
	a.l.WithFields(logrus.Fields(fields)).Info(msg)
}

func (a *logrusLogger) Warn(msg string, fields Fields) {
	a.l.WithFields(logrus.Fields(fields)).Warn(msg)
}

func (a *logrusLogger) Error(msg string, fields Fields) {
	a.l.WithFields(logrus.Fields(fields)).Error(msg)
}
