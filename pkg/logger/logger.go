package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init configures the global logrus logger. Production uses JSON lines,
// everything else the human readable text formatter.
func Init(level, env string) {
	logrus.SetOutput(os.Stdout)

	if strings.EqualFold(env, "production") {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		logrus.WithField("level", level).Warn("unknown log level, falling back to info")
	}
	logrus.SetLevel(lvl)
}
