// Package log is a thin logrus front. Nothing is written unless logs.write is
// on or SetupWriter was called.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/filesystem"
	"github.com/vidscout/vidscout/key"
	"github.com/vidscout/vidscout/where"
)

var (
	enabled bool
	logger  = logrus.New()
	discard = &logrus.Logger{
		Out:       io.Discard,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.PanicLevel,
	}
)

// Setup opens today's file in where.Logs() when logs.write is set.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	path := filepath.Join(where.Logs(), time.Now().Format("2006-01-02")+".log")
	f, err := filesystem.API().OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		enabled = false
		return fmt.Errorf("open log file: %w", err)
	}

	configure(f)
	return nil
}

// SetupWriter sends logs to w regardless of logs.write.
func SetupWriter(w io.Writer) error {
	enabled = true
	configure(w)
	return nil
}

func configure(w io.Writer) {
	logger.SetOutput(w)

	if viper.GetBool(key.LogsJson) {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func active() *logrus.Logger {
	if enabled {
		return logger
	}
	return discard
}

// WithContext tags entries with a browsing context id.
func WithContext(contextID string) *logrus.Entry {
	return active().WithField("context", contextID)
}

func Error(args ...any)                 { active().Error(args...) }
func Errorf(format string, args ...any) { active().Errorf(format, args...) }
func Warnf(format string, args ...any)  { active().Warnf(format, args...) }
func Infof(format string, args ...any)  { active().Infof(format, args...) }
func Debugf(format string, args ...any) { active().Debugf(format, args...) }
