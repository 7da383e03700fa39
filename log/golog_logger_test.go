package log

import (
	"testing"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
)

func newTestGologLogger() *GologLogger {
	return NewGologLogger(golog.New())
}

func TestNewGologLogger_Defaults(t *testing.T) {
	logger := newTestGologLogger()
	assert.NotNil(t, logger)
	assert.Equal(t, LogLevelInfo, logger.GetLevel())
}

func TestGologLogger_SetLevel(t *testing.T) {
	logger := newTestGologLogger()

	for _, level := range []LogLevel{LogLevelDebug, LogLevelWarn, LogLevelError, LogLevelNone} {
		logger.SetLevel(level)
		assert.Equal(t, level, logger.GetLevel())
	}
}

func TestGologLogger_FormatsMessages(t *testing.T) {
	logger := newTestGologLogger()
	logger.SetLevel(LogLevelDebug)

	assert.NotPanics(t, func() {
		logger.Debug("plain debug message")
		logger.Info("plain info message")
		logger.Warn("plain warning message")
		logger.Error("plain error message")

		logger.Debug("debug: %s", "test")
		logger.Info("info: %d", 42)
		logger.Warn("warn: %v", map[string]string{"key": "value"})
		logger.Error("error: %f", 3.14)
	})
}

func TestGologLogger_LevelGateFiltersLowerSeverity(t *testing.T) {
	logger := newTestGologLogger()
	logger.SetLevel(LogLevelError)
	assert.Equal(t, LogLevelError, logger.GetLevel())

	assert.NotPanics(t, func() {
		logger.Debug("filtered")
		logger.Info("filtered")
		logger.Warn("filtered")
		logger.Error("not filtered")
	})
}

func TestGologLogger_SatisfiesLoggerInterface(t *testing.T) {
	var _ Logger = (*GologLogger)(nil)
	assert.NotNil(t, newTestGologLogger())
}

func TestGologLogger_WrapsPreconfiguredGologInstance(t *testing.T) {
	glogger := golog.New()
	glogger.SetLevel("error")
	glogger.SetPrefix("[CUSTOM] ")

	logger := NewGologLogger(glogger)
	assert.NotNil(t, logger)

	logger.SetLevel(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, logger.GetLevel())
}
