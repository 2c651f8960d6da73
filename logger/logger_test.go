package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			path := filepath.Join(dir, tt.level+".log")
			cfg := FileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}
			require.NoError(t, InitWithFileConfig(tt.level, cfg, nil))

			Log.Debug("debug message")
			Log.Info("info message", zap.String("source", "INT_ARGB"))
			Log.Warn("warn message")
			Log.Error("error message")
			Sync()

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			for _, exp := range tt.expected {
				assert.Contains(t, string(content), exp)
			}
			for _, exc := range tt.excluded {
				assert.NotContains(t, string(content), exc)
			}
		})
	}
}

func TestConsole(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, InitWithFileConfig("info", FileConfig{}, &out))
	Log.Info("converted", zap.String("target", "BYTE_BGRA_PRE"))
	Sync()

	assert.Contains(t, out.String(), "converted")
	assert.Contains(t, out.String(), "BYTE_BGRA_PRE")
}

func TestParseLevel(t *testing.T) {
	_, err := ParseLevel("loud")
	assert.Error(t, err)

	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, "info", lvl.String())

	assert.Error(t, InitWithFileConfig("loud", FileConfig{}, nil))
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/pixbench.log")
	assert.Equal(t, "/tmp/pixbench.log", cfg.Path)
	assert.Equal(t, 20, cfg.MaxSizeMB)
	assert.Equal(t, 3, cfg.MaxBackups)
	assert.Equal(t, 14, cfg.MaxAgeDays)
	assert.True(t, cfg.Compress)
}
