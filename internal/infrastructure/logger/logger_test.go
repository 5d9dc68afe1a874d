package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("creates console logger", func(t *testing.T) {
		log, err := New(DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, log)
		log.Info("hello")
	})

	t.Run("creates json logger", func(t *testing.T) {
		log, err := New(ProductionConfig())
		require.NoError(t, err)
		assert.NotNil(t, log)
	})

	t.Run("writes to file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(&Config{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)
		log.Info("to file")
		require.NoError(t, Sync(log))
		assert.FileExists(t, path)
	})
}

func TestNewForEnvironment(t *testing.T) {
	log, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.NotNil(t, log)

	log, err = NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("unknown"))
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}
