package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestPresetConfigs(t *testing.T) {
	dev := DefaultConfig()
	assert.Equal(t, "console", dev.Format)
	assert.Equal(t, "stdout", dev.Output)

	prod := ProductionConfig()
	assert.Equal(t, "json", prod.Format)
	assert.Equal(t, "info", prod.Level)
	assert.NotEmpty(t, prod.TimeFormat)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"production", ProductionConfig(), false},
		{"debug json to stderr", &Config{Level: "debug", Format: "json", Output: "stderr"}, false},
		{"unwritable file", &Config{Level: "info", Format: "json", Output: filepath.Join(t.TempDir(), "missing", "app.log")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", "staging"} {
		t.Run(env, func(t *testing.T) {
			l, err := NewForEnvironment(env)
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNew_FileOutputWithService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path, Service: "disk-babu"})
	require.NoError(t, err)

	l.Info("wallet credited", zap.String("wallet_id", "w-1"))
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(raw), &entry))
	assert.Equal(t, "disk-babu", entry["service"])
	assert.Equal(t, "wallet credited", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "w-1", entry["wallet_id"])
	assert.Contains(t, entry, "caller")
}

func TestBuild_TeesCores(t *testing.T) {
	var a, b bytes.Buffer
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	tee := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.AddSync(&a), zapcore.InfoLevel),
		zapcore.NewCore(enc.Clone(), zapcore.AddSync(&b), zapcore.WarnLevel),
	)

	l := Build(tee, nil)
	l.Info("only first")
	l.Warn("both")

	assert.Contains(t, a.String(), "only first")
	assert.Contains(t, a.String(), "both")
	assert.NotContains(t, b.String(), "only first")
	assert.Contains(t, b.String(), "both")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.level))
		})
	}
}

func TestCreateEncoder(t *testing.T) {
	assert.NotNil(t, createEncoder(&Config{Format: "console"}))
	assert.NotNil(t, createEncoder(&Config{Format: "json", TimeFormat: "2006-01-02"}))
}

func TestNamed(t *testing.T) {
	l, err := NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotSame(t, l, Named(l, "scheduler"))
}

func TestIsTerminalSyncError(t *testing.T) {
	assert.True(t, isTerminalSyncError(errors.New("sync /dev/stdout: invalid argument")))
	assert.True(t, isTerminalSyncError(errors.New("sync /dev/stdout: inappropriate ioctl for device")))
	assert.False(t, isTerminalSyncError(errors.New("disk full")))
}
