package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), Config{}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(context.Background()))

	var nilProvider *LoggerProvider
	assert.False(t, nilProvider.IsEnabled())
}

func TestNewZapOTELCore_Disabled(t *testing.T) {
	core := NewZapOTELCore(nil, "disk-babu", zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))

	l := zap.New(core).With(zap.String("component", "ledger"))
	l.Info("dropped")
	l.Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "ledger", entry.ContextMap()["component"])
}

func TestBridgedLogger_WithoutExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	cfg := &logger.Config{Level: "info", Format: "json", Output: path, Service: "disk-babu"}

	l, err := BridgedLogger(cfg, &LoggerProvider{})
	require.NoError(t, err)
	l.Debug("hidden")
	l.Info("view recorded")
	require.NoError(t, l.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"view recorded"`)
	assert.Contains(t, string(raw), `"service":"disk-babu"`)
	assert.NotContains(t, string(raw), "hidden")
}
