package logging

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

// NewTestLogger returns a Logger that writes through t.Log. The tree
// tests in this module use it; the solver tests pass a nil logger.
func NewTestLogger(t testing.TB) Logger {
	t.Helper()
	base := zaptest.NewLogger(t)
	return &zapLogger{sugar: base.Sugar(), name: "test"}
}
