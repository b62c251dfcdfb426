// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"testing"

	"go.uber.org/zap"
)

var _ Logger = NoWarn{}

// NoWarn is a test logger that fails the test on any message at warn level
// or above.
type NoWarn struct {
	NoLog
	T *testing.T
}

func (l NoWarn) Fatal(msg string, _ ...zap.Field) {
	l.T.Helper()
	l.T.Fatalf("unexpected fatal log: %s", msg)
}

func (l NoWarn) Error(msg string, _ ...zap.Field) {
	l.T.Helper()
	l.T.Fatalf("unexpected error log: %s", msg)
}

func (l NoWarn) Warn(msg string, _ ...zap.Field) {
	l.T.Helper()
	l.T.Fatalf("unexpected warning log: %s", msg)
}
