package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log = logrus.StandardLogger()

// InitLogger configures the standard logrus logger, which both Log and the package-level
// logrus functions write through.
func InitLogger(level string) {
	// Output to stdout instead of the default stderr
	Log.SetOutput(os.Stdout)

	// Set JSON formatter for structured logging
	Log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Log.WithField("level", level).Warn("Unknown log level, falling back to info")
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
}
