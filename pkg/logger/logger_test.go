package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.FatalLevel, ParseLevel("fatal"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("chatty"))
}

func TestNewZap(t *testing.T) {
	z, err := NewZap("warn")
	require.NoError(t, err)
	assert.False(t, z.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, z.Core().Enabled(zapcore.WarnLevel))

	dev, err := NewZap("debug")
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))
}

func TestGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := SetGlobal(FromZap(zap.New(core)))
	t.Cleanup(func() { SetGlobal(prev) })

	Debug("hidden")
	Infof("trained %d rows", 83)
	Warn("artifact missing")
	Errorf("forecast failed: %v", "boom")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "trained 83 rows", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "forecast failed: boom", entries[2].Message)
}

func TestSetGlobalLogLevel(t *testing.T) {
	t.Cleanup(func() { SetGlobalLogLevel("info") })

	SetGlobalLogLevel("error")
	assert.False(t, stdLevel.Enabled(zapcore.WarnLevel))
	SetGlobalLogLevel("debug")
	assert.True(t, stdLevel.Enabled(zapcore.DebugLevel))
}
