package obs

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once sync.Once
	base *logrus.Logger
)

// Fields carries structured log context.
type Fields map[string]any

func logger() *logrus.Logger {
	once.Do(func() {
		base = logrus.New()
		base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	})
	return base
}

// EnableDebug globally enables debug logs.
func EnableDebug(v bool) {
	if v {
		logger().SetLevel(logrus.DebugLevel)
	} else {
		logger().SetLevel(logrus.InfoLevel)
	}
}

func logWith(f Fields) *logrus.Entry {
	if f == nil {
		f = Fields{}
	}
	return logger().WithFields(logrus.Fields(f))
}

func Info(msg string, f Fields)  { logWith(f).Info(msg) }
func Warn(msg string, f Fields)  { logWith(f).Warn(msg) }
func Error(msg string, f Fields) { logWith(f).Error(msg) }
func Debug(msg string, f Fields) { logWith(f).Debug(msg) }
