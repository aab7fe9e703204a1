package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReplaceCore(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := ReplaceCore(core)

	ProgressLogger.Printf("Step %d - %s", 1, "styling")
	WarningLogger.With("property", "colr").Warnf("ignored declaration")

	restore()
	ProgressLogger.Printf("not captured")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Step 1 - styling", entries[0].Message)
	assert.Equal(t, "progress", entries[0].LoggerName)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "colr", entries[1].ContextMap()["property"])
}

func TestConfigure(t *testing.T) {
	previous := current.Load()
	defer current.Store(previous)

	file := filepath.Join(t.TempDir(), "out.log")
	require.NoError(t, Configure(Config{Level: "info", Format: "json", File: file}))
	WarningLogger.Printf("written to %s", "file")
	Sync()

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "written to file")

	assert.Error(t, Configure(Config{Level: "verbose"}))
}
