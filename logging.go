package cleanblog

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig selects where and how the server logs.
type LogConfig struct {
	Level    string // trace, debug, info, warn, error (default info)
	File     string // rotated log file; empty logs to stdout only
	ToStdout bool   // with File set, also write to stdout
	JSON     bool
}

// SetupLogging builds the logger handed to the App via WithLogger.
func SetupLogging(cfg LogConfig) *logrus.Logger {
	log := logrus.New()
	if cfg.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	log.SetLevel(ParseLevel(cfg.Level))

	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return log
	}

	if !strings.HasSuffix(cfg.File, ".log") {
		cfg.File += ".log"
	}
	rotated := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    50, // megabytes
		MaxBackups: 10,
		LocalTime:  false,
		Compress:   true,
	}
	if cfg.ToStdout {
		log.SetOutput(io.MultiWriter(os.Stdout, rotated))
	} else {
		log.SetOutput(rotated)
	}
	return log
}

// ParseLevel maps a level name to a logrus level. Unknown names mean info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
