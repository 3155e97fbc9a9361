package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Settings controls where and how verbosely the application logs
type Settings struct {
	Level string

	// FilePath switches output to a rotating JSON log file when set
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New creates a new logger with the specified settings
func New(settings Settings) *logrus.Logger {
	logger := logrus.New()

	// Set log level
	logLevel, err := logrus.ParseLevel(settings.Level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if settings.FilePath == "" {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		logger.SetOutput(os.Stdout)
		return logger
	}

	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(newRotatingFile(settings))
	return logger
}

func newRotatingFile(settings Settings) io.Writer {
	return &lumberjack.Logger{
		Filename:   settings.FilePath,
		MaxSize:    settings.MaxSizeMB,
		MaxBackups: settings.MaxBackups,
		MaxAge:     settings.MaxAgeDays,
		Compress:   true,
	}
}
