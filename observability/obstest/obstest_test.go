package obstest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

func TestTelemetryCapturesSpans(t *testing.T) {
	tel := New(t)

	_, span := tel.TracerProvider.Tracer("test").Start(context.Background(), "db.select")
	span.SetAttributes(attribute.String("db.collection.name", "household"), attribute.Int("n", 2))
	span.RecordError(errors.New("boom"))
	span.SetStatus(codes.Error, "boom")
	span.End()

	stub := tel.OnlySpan(t)
	assert.Equal(t, "db.select", stub.Name)
	AssertSpanAttribute(t, stub, "db.collection.name", "household")
	AssertSpanAttribute(t, stub, "n", "2")
	AssertNoSpanAttribute(t, stub, "db.system")
	AssertSpanError(t, stub, "boom")
}

func TestTelemetryCollectsMetrics(t *testing.T) {
	tel := New(t)
	meter := tel.MeterProvider.Meter("test")

	counter, err := meter.Int64Counter("calls")
	require.NoError(t, err)
	counter.Add(context.Background(), 2)
	counter.Add(context.Background(), 3, metricWithAttr("op", "update"))

	hist, err := meter.Float64Histogram("duration")
	require.NoError(t, err)
	hist.Record(context.Background(), 1.5)
	hist.Record(context.Background(), 2.5)

	rm := tel.Collect(t)
	assert.Equal(t, int64(5), SumInt64(t, rm, "calls"))
	assert.Equal(t, uint64(2), HistogramCount(t, rm, "duration"))

	_, ok := FindMetric(rm, "missing")
	assert.False(t, ok)
}

func metricWithAttr(key, value string) metric.AddOption {
	return metric.WithAttributes(attribute.String(key, value))
}
