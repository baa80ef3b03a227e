package logger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	t.Run("開発環境", func(t *testing.T) {
		l := NewLogger("development")
		require.NotNil(t, l)
		l.Info("test message")
	})

	t.Run("本番環境", func(t *testing.T) {
		l := NewLogger("production")
		require.NotNil(t, l)
		l.Info("test message")
	})

	t.Run("LOG_LEVELでレベルを上書きできる", func(t *testing.T) {
		os.Setenv("LOG_LEVEL", "debug")
		defer os.Unsetenv("LOG_LEVEL")

		l := NewLogger("development")
		require.NotNil(t, l)
		assert.True(t, l.Core().Enabled(zap.DebugLevel))
	})

	t.Run("不正なLOG_LEVELは無視される", func(t *testing.T) {
		os.Setenv("LOG_LEVEL", "invalid_level")
		defer os.Unsetenv("LOG_LEVEL")

		l := NewLogger("development")
		require.NotNil(t, l)
	})
}

func TestGetSet(t *testing.T) {
	original := Get()
	defer Set(original)

	require.NotNil(t, original)

	replacement := zap.NewNop()
	Set(replacement)
	assert.Equal(t, replacement, Get())
}

func TestPackageLevelLogging(t *testing.T) {
	// パッケージ関数がパニックしないことを確認
	assert.NotPanics(t, func() {
		Debug("debug message")
		Info("info message", zap.String("key", "value"), zap.Int("count", 42))
		Warn("warn message")
		Error("error message", zap.String("error_code", "E001"))
	})
}

func TestWith(t *testing.T) {
	l := With(zap.String("component", "test"))
	require.NotNil(t, l)
}

func TestSync(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = Sync()
	})
}
