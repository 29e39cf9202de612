package logger

import (
	"os"

	"learn-assist/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SessionIDField is the log key for session ids.
const SessionIDField = "session_id"

var log = zap.NewNop()

// Initialize sets up the logger with the given configuration
func Initialize(loggerCfg config.LoggerConfig) error {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	logLevel := zapcore.InfoLevel
	if loggerCfg.Level != "" {
		if err := logLevel.UnmarshalText([]byte(loggerCfg.Level)); err != nil {
			return err
		}
	}

	var encoder zapcore.Encoder
	if loggerCfg.Env == "production" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), logLevel)

	log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

// Get returns the global logger instance. Before Initialize it is a no-op logger,
// so packages can log from tests without setup.
func Get() *zap.Logger {
	return log
}

// ForSession tags entries with the browser session they belong to.
// An empty id returns the plain logger.
func ForSession(sessionID string) *zap.Logger {
	if sessionID == "" {
		return log
	}
	return log.With(zap.String(SessionIDField, sessionID))
}

// Sync flushes any buffered log entries
func Sync() error {
	return log.Sync()
}
