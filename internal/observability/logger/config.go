package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls the logger built by Init.
type Config struct {
	// Env selects the encoder: "prod" emits JSON, anything else emits the
	// human-readable console format.
	Env string
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string
}

func build(cfg Config) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.Env == "prod" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	log, err := zc.Build()
	if err != nil {
		// Building only fails on a bad config; fall back instead of dying.
		log = zap.NewNop()
	}
	return log
}
