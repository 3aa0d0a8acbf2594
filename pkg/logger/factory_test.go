package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/logger"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/requestid"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/tenant"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json at info by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))

		log.Debug("dropped")
		assert.Zero(t, buf.Len())

		log.Info("transition committed")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "transition committed", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Component("workflow")))
		log.Info("msg")
		assert.Equal(t, "workflow", decode(t, buf)["component"])
	})

	t.Run("unknown format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat(logger.Format("xml"))) })
	})
}

func TestWithLevelName(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithLevelName("warn"))
	log.Info("dropped")
	assert.Zero(t, buf.Len())
	log.Warn("kept")
	assert.Equal(t, "WARN", decode(t, buf)["level"])

	buf.Reset()
	log = logger.New(logger.WithOutput(buf), logger.WithLevelName(""))
	log.Info("default level kept")
	assert.NotZero(t, buf.Len())

	assert.Panics(t, func() { logger.New(logger.WithLevelName("chatty")) })
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env       string
		wantEnv   string
		wantDebug bool
	}{
		{"production", logger.EnvProduction, false},
		{"prod", logger.EnvProduction, false},
		{"staging", logger.EnvStaging, false},
		{"Stage", logger.EnvStaging, false},
		{"development", logger.EnvDevelopment, true},
		{"", logger.EnvDevelopment, true},
		{"local", logger.EnvDevelopment, true},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			buf := &bytes.Buffer{}
			log := logger.New(
				logger.WithEnvironment(tt.env, "workflowd"),
				logger.WithFormat(logger.FormatJSON),
				logger.WithOutput(buf),
			)
			assert.Equal(t, tt.wantDebug, log.Enabled(context.Background(), slog.LevelDebug))

			log.Info("msg")
			entry := decode(t, buf)
			assert.Equal(t, tt.wantEnv, entry["env"])
			assert.Equal(t, "workflowd", entry["service"])
		})
	}
}

func TestEnvironmentShorthands(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger.New(logger.WithDevelopment("svc"), logger.WithOutput(buf)).Debug("msg")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "service=svc")

	buf.Reset()
	logger.New(logger.WithProduction("svc"), logger.WithOutput(buf)).Info("msg")
	assert.Equal(t, "production", decode(t, buf)["env"])
}

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(requestid.LoggerExtractor(), nil, tenant.LoggerExtractor()),
	)

	ctx := requestid.WithContext(context.Background(), "req-1")
	ctx = tenant.WithID(ctx, "store-42")
	log.With(logger.Component("workflow")).InfoContext(ctx, "transition committed")

	entry := decode(t, buf)
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "store-42", entry["store_id"])
	assert.Equal(t, "workflow", entry["component"])

	buf.Reset()
	log.Info("no context values")
	entry = decode(t, buf)
	assert.NotContains(t, entry, "request_id")
	assert.NotContains(t, entry, "store_id")
}

func TestSetAsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	logger.SetAsDefault(logger.New(logger.WithOutput(buf)))
	slog.Info("default")
	assert.Equal(t, "default", decode(t, buf)["msg"])
}
