package logger

import "github.com/sirupsen/logrus"

var Logger *logrus.Logger = logrus.New()

// Init replaces the default logger with one at the configured level.
func Init(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.DebugLevel
	}
	Logger = logrus.New()
	Logger.SetLevel(parsed)
}
