package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yukikurage/task-tracker/internal/config"
)

// Setup builds the application logger for env. level, when set, overrides
// the level implied by env; file, when set, receives the output instead of
// stdout.
func Setup(env, level, file string) (*logrus.Entry, error) {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	switch env {
	case config.EnvLocal:
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.TimeOnly,
		})
	case config.EnvDev:
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	default:
		log.SetLevel(logrus.WarnLevel)
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}

	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		log.SetLevel(parsed)
	}

	if file != "" {
		logFile, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		log.SetOutput(logFile)
	}

	return logrus.NewEntry(log), nil
}

// Discard returns a logger that drops everything, for tests
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

// Gorm routes gorm's SQL logging through log. SQL statements are only
// traced when debug is set.
func Gorm(log *logrus.Entry, debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	return gormlogger.New(log.WithField("component", "gorm"), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
