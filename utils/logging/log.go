// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Logger = (*log)(nil)

type log struct {
	atomicLevel    zap.AtomicLevel
	writer         io.Writer
	internalLogger *zap.Logger
}

// NewLogger returns a new logger that writes [prefix]ed entries at or above
// [level] to [writer] using the console encoding.
func NewLogger(prefix string, level Level, writer io.Writer) Logger {
	if writer == nil {
		writer = os.Stdout
	}
	atomicLevel := zap.NewAtomicLevelAt(zapcore.Level(level))
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(newEncoderConfig()),
		zapcore.AddSync(writer),
		atomicLevel,
	)
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	if prefix != "" {
		logger = logger.Named(prefix)
	}
	return &log{
		atomicLevel:    atomicLevel,
		writer:         writer,
		internalLogger: logger,
	}
}

func newEncoderConfig() zapcore.EncoderConfig {
	config := zap.NewProductionEncoderConfig()
	config.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	return config
}

func (l *log) Write(p []byte) (int, error) {
	return l.writer.Write(p)
}

func (l *log) Stop() {
	_ = l.internalLogger.Sync()
}

// Should only be called from [Level] functions.
func (l *log) log(level Level, msg string, fields ...zap.Field) {
	if ce := l.internalLogger.Check(zapcore.Level(level), msg); ce != nil {
		ce.Write(fields...)
	}
}

func (l *log) Fatal(msg string, fields ...zap.Field) {
	l.log(Fatal, msg, fields...)
}

func (l *log) Error(msg string, fields ...zap.Field) {
	l.log(Error, msg, fields...)
}

func (l *log) Warn(msg string, fields ...zap.Field) {
	l.log(Warn, msg, fields...)
}

func (l *log) Info(msg string, fields ...zap.Field) {
	l.log(Info, msg, fields...)
}

func (l *log) Debug(msg string, fields ...zap.Field) {
	l.log(Debug, msg, fields...)
}

func (l *log) Verbo(msg string, fields ...zap.Field) {
	l.log(Verbo, msg, fields...)
}

func (l *log) SetLevel(level Level) {
	l.atomicLevel.SetLevel(zapcore.Level(level))
}
