package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_ConsoleWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")

	logger, err := New(Options{Level: "info", Format: "console", OutputPaths: []string{logPath}})
	require.NoError(t, err)

	logger.Info("collected records", zap.Int("count", 3))
	_ = logger.Sync()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "collected records")
	assert.Contains(t, string(content), "INFO")
	assert.False(t, strings.Contains(string(content), ".go:"), "info logs should omit caller")
}

func TestNew_DebugIncludesCaller(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")

	logger, err := New(Options{Level: "debug", Format: "json", OutputPaths: []string{logPath}})
	require.NoError(t, err)

	logger.Debug("classifier decision")
	_ = logger.Sync()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"classifier decision"`)
	assert.Contains(t, string(content), ".go:")
}

func TestNew_UnsupportedFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported value")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}

func TestComponent_TagsLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := Component(zap.New(core), "sources")

	logger.Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "sources", fields["component"])
}

func TestComponent_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		Component(nil, "x").Info("discarded")
	})
}
