package logger

import (
	"testing"

	"learn-assist/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { _ = Initialize(config.LoggerConfig{}) })

	require.NoError(t, Initialize(config.LoggerConfig{Env: "production", Level: "debug"}))
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Initialize(config.LoggerConfig{Env: "development", Level: "warn"}))
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Get().Core().Enabled(zapcore.WarnLevel))

	assert.Error(t, Initialize(config.LoggerConfig{Level: "loud"}))
}

func TestForSession(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := log
	log = zap.New(core)
	t.Cleanup(func() { log = prev })

	ForSession("01J9ZSESSION").Info("tagged")
	ForSession("").Info("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "01J9ZSESSION", entries[0].ContextMap()[SessionIDField])
	assert.NotContains(t, entries[1].ContextMap(), SessionIDField)
}
