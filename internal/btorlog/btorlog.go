// Package btorlog wraps a package-level logrus logger for diagnostic
// output, mirroring the default-logger pattern of netrix's log package but
// mapping btorsim's repeatable -v flag onto logrus levels instead of a
// named level string. Every message starts with "*** 'btorsim' "; the
// logrus text formatter then writes its own level field ahead of the
// message, so an emitted line does not itself begin with that prefix.
package btorlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultLogger is the package-level logger every btorsim component logs
// through. It starts at warning level; Init changes the level.
var DefaultLogger *logrus.Entry

func init() {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableLevelTruncation: true})
	l.SetLevel(logrus.WarnLevel)
	DefaultLogger = logrus.NewEntry(l)
}

// Init sets the logger's level from a repeatable -v count: 0 is warnings
// only, 1 is info, 2 is debug, 3 or more is trace.
func Init(verbosity int) {
	switch {
	case verbosity <= 0:
		DefaultLogger.Logger.SetLevel(logrus.WarnLevel)
	case verbosity == 1:
		DefaultLogger.Logger.SetLevel(logrus.InfoLevel)
	case verbosity == 2:
		DefaultLogger.Logger.SetLevel(logrus.DebugLevel)
	default:
		DefaultLogger.Logger.SetLevel(logrus.TraceLevel)
	}
}

const prefix = "*** 'btorsim' "

// Infof logs a formatted diagnostic at info level.
func Infof(format string, args ...interface{}) { DefaultLogger.Infof(prefix+format, args...) }

// Debugf logs a formatted diagnostic at debug level.
func Debugf(format string, args ...interface{}) { DefaultLogger.Debugf(prefix+format, args...) }

// Tracef logs a formatted diagnostic at trace level.
func Tracef(format string, args ...interface{}) { DefaultLogger.Tracef(prefix+format, args...) }

// Warnf logs a formatted diagnostic at warn level.
func Warnf(format string, args ...interface{}) { DefaultLogger.Warnf(prefix+format, args...) }
