// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Level zapcore.Level

const (
	Verbo Level = Level(zapcore.DebugLevel) - 1
	Debug Level = Level(zapcore.DebugLevel)
	Info  Level = Level(zapcore.InfoLevel)
	Warn  Level = Level(zapcore.WarnLevel)
	Error Level = Level(zapcore.ErrorLevel)
	Fatal Level = Level(zapcore.FatalLevel)
	Off   Level = Level(zapcore.FatalLevel) + 1
)

const (
	fatalStr = "FATAL"
	errorStr = "ERROR"
	warnStr  = "WARN"
	infoStr  = "INFO"
	debugStr = "DEBUG"
	verboStr = "VERBO"
	offStr   = "OFF"
)

var ErrUnknownLevel = fmt.Errorf(
	"unknown log level, available values are: {%s, %s, %s, %s, %s, %s, %s}",
	fatalStr, errorStr, warnStr, infoStr, debugStr, verboStr, offStr,
)

// Inverse of Level.String()
func ToLevel(l string) (Level, error) {
	switch strings.ToUpper(l) {
	case offStr:
		return Off, nil
	case fatalStr:
		return Fatal, nil
	case errorStr:
		return Error, nil
	case warnStr:
		return Warn, nil
	case infoStr:
		return Info, nil
	case debugStr:
		return Debug, nil
	case verboStr:
		return Verbo, nil
	default:
		return Off, ErrUnknownLevel
	}
}

func (l Level) String() string {
	switch l {
	case Off:
		return offStr
	case Fatal:
		return fatalStr
	case Error:
		return errorStr
	case Warn:
		return warnStr
	case Info:
		return infoStr
	case Debug:
		return debugStr
	case Verbo:
		return verboStr
	default:
		// This should never happen
		return "UNKNO"
	}
}
