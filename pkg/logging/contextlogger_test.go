package logging_test

import (
	"context"
	"testing"

	"github.com/leandrowaltz/provavida/pkg/config"
	"github.com/leandrowaltz/provavida/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	t.Run("nível válido", func(t *testing.T) {
		logger, err := logging.NewLogger(config.LoggingConfig{Level: "debug", Format: "console", OutputPath: "stdout"})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("nível inválido", func(t *testing.T) {
		_, err := logging.NewLogger(config.LoggingConfig{Level: "barulhento"})
		assert.Error(t, err)
	})
}

func TestContextLogger_AddsTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := logging.NewContextLogger(zap.New(core))

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("teste").Start(context.Background(), "operacao")
	defer span.End()

	logger.InfoCtx(ctx, "com rastreamento")
	logger.InfoCtx(context.Background(), "sem rastreamento")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].ContextMap(), "trace_id")
	assert.Contains(t, entries[0].ContextMap(), "span_id")
	assert.NotContains(t, entries[1].ContextMap(), "trace_id")
}

func TestContextLogger_RequestFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := logging.NewContextLogger(zap.New(core)).With(zap.String("service", "cadastro"))

	ctx := logging.WithRequestID(context.Background(), "req-1")
	ctx = logging.WithUsername(ctx, "bia")
	logger.WarnCtx(ctx, "Cadastro atualizado", logging.CPF("123.456.789-00"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "bia", fields["username"])
	assert.Equal(t, "cadastro", fields["service"])
	assert.Equal(t, "123.***.***-00", fields["cpf"])
}

func TestMaskCPF(t *testing.T) {
	assert.Equal(t, "987.***.***-10", logging.MaskCPF("987.654.321-10"))
	assert.Equal(t, "***", logging.MaskCPF("98765432110"))
	assert.Equal(t, "***", logging.MaskCPF(""))
}
