// Package logging builds the zap logger used across rewake. The TUI owns the
// terminal, so logs go to a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configure the logger.
type Options struct {
	File       string // empty disables logging
	Level      string // debug, info, warn, error; empty means info
	MaxSizeMB  int    // zero uses 10
	MaxBackups int    // zero uses 3

	// Output overrides File; used by tests.
	Output io.Writer
}

// New returns a logger and a cleanup func that flushes and closes the sink.
func New(opts Options) (*zap.Logger, func(), error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var sink zapcore.WriteSyncer
	var closer io.Closer
	switch {
	case opts.Output != nil:
		sink = zapcore.AddSync(opts.Output)
	case strings.TrimSpace(opts.File) != "":
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			Compress:   true,
		}
		sink = zapcore.AddSync(lj)
		closer = lj
	default:
		return zap.NewNop(), func() {}, nil
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, level)
	logger := zap.New(core).Named("rewake")

	cleanup := func() {
		_ = logger.Sync()
		if closer != nil {
			_ = closer.Close()
		}
	}
	return logger, cleanup, nil
}

// ParseLevel converts a config string to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return zapcore.InfoLevel, nil
	}
	if trimmed == "warning" {
		trimmed = "warn"
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(trimmed)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return level, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
