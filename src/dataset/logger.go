package dataset

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var baseLogger = newBaseLogger()

func newBaseLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006/01/02 15:04:05.000000"}
	l.Level = logrus.InfoLevel
	return l
}

// SetLogLevel parses and sets global log level. Unknown values are ignored.
func SetLogLevel(s string) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	l, err := logrus.ParseLevel(s)
	if err != nil {
		return
	}
	baseLogger.SetLevel(l)
}

// GetLogLevel returns current global log level (exported for conditional debug logic outside package).
func GetLogLevel() logrus.Level { return baseLogger.GetLevel() }

// WithFields returns an entry for structured lines, e.g. load summaries.
func WithFields(f logrus.Fields) *logrus.Entry { return baseLogger.WithFields(f) }

func logf(l logrus.Level, format string, args ...interface{}) {
	if !baseLogger.IsLevelEnabled(l) {
		return
	}
	// Only format when there are args; otherwise treat the input as a plain message to avoid
	// fmt parsing literal % characters in already formatted strings (which would yield %!x(MISSING)).
	if len(args) == 0 {
		baseLogger.Log(l, format)
		return
	}
	baseLogger.Logf(l, format, args...)
}

// Public helpers
func Debugf(format string, a ...interface{}) { logf(logrus.DebugLevel, format, a...) }
func Infof(format string, a ...interface{})  { logf(logrus.InfoLevel, format, a...) }
func Warnf(format string, a ...interface{})  { logf(logrus.WarnLevel, format, a...) }
func Errorf(format string, a ...interface{}) { logf(logrus.ErrorLevel, format, a...) }

// Timing helper for phases.
func TimeTrack(start time.Time, label string) {
	dur := time.Since(start)
	Debugf("%s took %s", label, dur)
}
