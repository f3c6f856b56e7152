package observability

import (
	"context"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"stream-advisor/internal/common/config"
	"stream-advisor/internal/common/logger"
)

func TestNew_MetricsOnly(t *testing.T) {
	reg := promclient.NewRegistry()
	obs := New("stream-advisor-test", config.TracingConfig{}, logger.NewTestLogger(t), WithRegisterer(reg))
	defer obs.Shutdown(context.Background())

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "calculate-stream-scores", "completed")
	obs.RecordJobDuration(ctx, "calculate-stream-scores", 25*time.Millisecond, "completed")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["jobs_processed_total"], "got %v", names)
	assert.True(t, names["jobs_duration_milliseconds"], "got %v", names)
	for name := range names {
		assert.NotContains(t, name, ".", "exported metric names must be prometheus-safe")
	}
}

func TestStartSpan_TracingDisabled(t *testing.T) {
	obs := New("stream-advisor-test", config.TracingConfig{Enabled: false}, nil, WithRegisterer(promclient.NewRegistry()))

	ctx, span := obs.StartSpan(context.Background(), "assessment.score", attribute.String("variant", "regular"))
	defer span.End()

	require.NotNil(t, ctx)
	assert.False(t, span.SpanContext().IsValid())
	assert.False(t, span.IsRecording())
}

func TestNilObservability(t *testing.T) {
	var obs *Observability
	ctx := context.Background()

	assert.NotPanics(t, func() {
		_, span := obs.StartSpan(ctx, "noop")
		span.End()
		obs.RecordJobProcessed(ctx, "clear-responses", "completed")
		obs.RecordJobDuration(ctx, "clear-responses", time.Second, "completed")
		obs.Shutdown(ctx)
	})
}
