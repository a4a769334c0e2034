package logger

import (
	"os"

	"gitlab.com/hashsearch.net/internal/adapter/logging"
)

var Logger = logging.NewZapLoggerWithLevel(os.Getenv("DEBUG_MODE") == "true")

func Info(msg string, args ...interface{}) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...interface{}) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...interface{}) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	Logger.Warn(msg, args...)
}

func Sync() {
	_ = Logger.Sync()
}
