// Package util provides utility functions for the backend.
//
//revive:disable-next-line:var-naming
package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger sets up the Zap Logger to log to the console in a human readable format
func InitLogger(level string) *zap.Logger {
	prodConfig := zap.NewProductionConfig()
	prodConfig.Encoding = "console"
	prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	prodConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		prodConfig.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := prodConfig.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
