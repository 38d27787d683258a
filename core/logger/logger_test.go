package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactcard/core/logger"
)

type ctxKey struct{}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("production writes json with service", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithProduction("card"), logger.WithOutput(&buf))
		log.Info("hello", logger.Component("test"))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "hello", rec["msg"])
		assert.Equal(t, "card", rec["service"])
		assert.Equal(t, "production", rec["env"])
		assert.Equal(t, "test", rec["component"])
	})

	t.Run("development logs debug as text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("card"), logger.WithOutput(&buf))
		log.Debug("details")
		assert.Contains(t, buf.String(), "msg=details")
		assert.Contains(t, buf.String(), "env=development")
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithLevel(slog.LevelWarn), logger.WithOutput(&buf))
		log.Info("skipped")
		assert.Empty(t, buf.String())
		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("context values are injected", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithContextValue("request_id", ctxKey{}),
		)
		ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
		log.With(logger.Component("c")).InfoContext(ctx, "with id")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "req-1", rec["request_id"])
		assert.Equal(t, "c", rec["component"])
	})

	t.Run("missing context value is skipped", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithContextValue("request_id", ctxKey{}),
		)
		log.InfoContext(context.Background(), "no id")
		assert.NotContains(t, buf.String(), "request_id")
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("nonsense"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel(""))
}
