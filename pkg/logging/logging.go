// Package logging builds the zap logger used by the handpose commands.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the log level and an optional rotating log file.
type Config struct {
	Verbose bool
	File    string
	// NoConsole drops the stderr output, for commands that own the terminal.
	NoConsole bool
}

// New builds a logger writing colored console output to stderr and, when
// cfg.File is set, JSON lines to a rotating file. With neither sink the
// logger discards everything.
func New(cfg Config) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if cfg.Verbose {
		level.SetLevel(zap.DebugLevel)
	}

	var cores []zapcore.Core
	if !cfg.NoConsole {
		cores = append(cores, zapcore.NewCore(encoder("console"), zapcore.Lock(os.Stderr), level))
	}

	if cfg.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		})
		cores = append(cores, zapcore.NewCore(encoder("json"), fileWriter, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel))
}

func encoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}
