package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("console format", func(t *testing.T) {
		logger, err := New(&Config{Level: "debug", Format: "console", Output: "stdout"})
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("json format", func(t *testing.T) {
		logger, err := New(&Config{Level: "warn", Format: "json", Output: "stderr"})
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	})
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", ""} {
		logger, err := NewForEnvironment(env)
		require.NoError(t, err)
		require.NotNil(t, logger)
	}
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}

func TestGormLogger_LogMode(t *testing.T) {
	base, err := New(DefaultConfig())
	require.NoError(t, err)

	gl := NewGormLogger(base, gormlogger.Warn)
	silent := gl.LogMode(gormlogger.Silent)

	// LogMode returns a copy, the original keeps its level
	assert.NotSame(t, gl, silent)
	assert.Equal(t, gormlogger.Warn, gl.level)
	assert.Equal(t, gormlogger.Silent, silent.(*GormLogger).level)
}
