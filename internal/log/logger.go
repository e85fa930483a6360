// Package log is a thin facade over logrus shared by the whole application.
// It exposes printf-style leveled helpers plus structured field logging.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// SetDebug toggles debug-level output.
func SetDebug(debug bool) {
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects all log output, used by tests and the daemon log file.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value any
}

// F builds a Field for use with LogWithFields.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// LogWithFields returns an entry carrying the given structured fields.
func LogWithFields(fields ...Field) *logrus.Entry {
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return logger.WithFields(lf)
}

// Info logs a formatted message at info level.
func Info(format string, args ...any) {
	logger.Infof(format, args...)
}

// Debug logs a formatted message at debug level.
func Debug(format string, args ...any) {
	logger.Debugf(format, args...)
}

// Warn logs a formatted message at warn level.
func Warn(format string, args ...any) {
	logger.Warnf(format, args...)
}

// Error logs a formatted message at error level.
func Error(format string, args ...any) {
	logger.Errorf(format, args...)
}
