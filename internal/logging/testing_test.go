package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTestLogger_AssertLogged(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "test message", zap.String("key", "value"))

	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "test message")
	tl.AssertField(t, "test message", "key", "value")
}

func TestTestLogger_Reset(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "first")
	tl.Reset()

	assert.Empty(t, tl.All())
}

func TestTestLogger_AssertNoSecretsDetectsDSN(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "configured", zap.String("endpoint", "https://t1@uptrace.dev/1"))

	rec := &recordingTB{TB: t}
	tl.AssertNoSecrets(rec)
	assert.True(t, rec.failed)
}

// recordingTB captures failures instead of failing the test.
type recordingTB struct {
	testing.TB
	failed bool
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(string, ...interface{}) { r.failed = true }
