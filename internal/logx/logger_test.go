package logx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"sysmonbar/internal/conf"
)

func TestNewLoggerTeesExtraCores(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	logger, err := NewLogger(conf.Log{Level: "warn"}, core)
	require.NoError(t, err)

	logger.Info("below the stdout level")
	logger.Warn("icon render failed", zap.String("path", "/tmp/x.svg"))

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[1]
	assert.Equal(t, "icon render failed", entry.Message)
	assert.Equal(t, "/tmp/x.svg", entry.ContextMap()["path"])
	assert.Equal(t, "sysmonbar", entry.ContextMap()["service"])
}

func TestNewLoggerLevels(t *testing.T) {
	logger, err := NewLogger(conf.Log{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger(conf.Log{Level: "loud"})
	assert.Error(t, err)
}
