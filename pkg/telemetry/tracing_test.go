package telemetry_test

import (
	"context"
	"testing"

	"github.com/leandrowaltz/provavida/pkg/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSampler(t *testing.T) {
	assert.Equal(t, "AlwaysOffSampler", telemetry.Sampler(0).Description())
	assert.Equal(t, "AlwaysOnSampler", telemetry.Sampler(1).Description())
	assert.Equal(t, "AlwaysOnSampler", telemetry.Sampler(2).Description())
	assert.Contains(t, telemetry.Sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	assert.Equal(t, "development", telemetry.Environment())

	t.Setenv("ENVIRONMENT", "producao")
	assert.Equal(t, "producao", telemetry.Environment())
}

func TestNewTracerProvider_DoesNotBlockWithoutCollector(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		ServiceName:   "provavida-test",
		Endpoint:      "127.0.0.1:1",
		SamplingRatio: 0.5,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tp.Shutdown(ctx)
}
