package logadapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewZap(zap.New(core))

	logger.Info("schedule", "job", "poll", "every", 5)
	logger.Error(errors.New("boom"), "job failed", "job", "poll")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "schedule", entries[0].Message)
	assert.Equal(t, map[string]any{"job": "poll", "every": int64(5)}, entries[0].ContextMap())

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "job failed", entries[1].Message)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, "poll", entries[1].ContextMap()["job"])
}

func TestZapNil(t *testing.T) {
	assert.NotPanics(t, func() {
		NewZap(nil).Info("discarded")
	})
}
