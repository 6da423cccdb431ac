// Package obstest provides in-memory OpenTelemetry providers and assertion
// helpers for testing statement tracking without an external collector.
//
// Usage:
//
//	tel := obstest.New(t)
//	tmpl := database.NewNamedTemplate(db, database.PostgreSQL, log,
//	    database.WithTracerProvider(tel.TracerProvider),
//	    database.WithMeterProvider(tel.MeterProvider))
//
//	// run statements, then
//	span := tel.OnlySpan(t)
//	obstest.AssertSpanAttribute(t, span, "db.collection.name", "household")
package obstest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// Telemetry bundles a synchronous tracer provider with an in-memory exporter
// and a meter provider with a manual reader.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	Spans          *tracetest.InMemoryExporter

	MeterProvider *sdkmetric.MeterProvider
	Reader        *sdkmetric.ManualReader
}

// New creates providers that are shut down when t finishes.
func New(t *testing.T) *Telemetry {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	return &Telemetry{
		TracerProvider: tp,
		Spans:          exporter,
		MeterProvider:  mp,
		Reader:         reader,
	}
}

// OnlySpan returns the single recorded span, failing the test otherwise.
func (tel *Telemetry) OnlySpan(t *testing.T) tracetest.SpanStub {
	t.Helper()

	spans := tel.Spans.GetSpans()
	require.Len(t, spans, 1, "expected exactly one span")
	return spans[0]
}

// Collect reads all metrics recorded so far.
func (tel *Telemetry) Collect(t *testing.T) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, tel.Reader.Collect(context.Background(), &rm), "failed to collect metrics")
	return rm
}

// FindMetric returns the first metric called name across all scopes.
func FindMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

// SumInt64 totals every data point of an int64 counter.
func SumInt64(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()

	m, ok := FindMetric(rm, name)
	require.True(t, ok, "metric %s not found", name)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is %T, not an int64 sum", name, m.Data)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

// HistogramCount totals the observation count of a float64 histogram.
func HistogramCount(t *testing.T, rm metricdata.ResourceMetrics, name string) uint64 {
	t.Helper()

	m, ok := FindMetric(rm, name)
	require.True(t, ok, "metric %s not found", name)

	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "metric %s is %T, not a float64 histogram", name, m.Data)

	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	return count
}

// SpanAttribute returns the value of key on span.
func SpanAttribute(span tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

// AssertSpanAttribute asserts that span carries key with the expected value,
// compared in its emitted string form.
func AssertSpanAttribute(t *testing.T, span tracetest.SpanStub, key, expected string) {
	t.Helper()

	v, ok := SpanAttribute(span, key)
	if !assert.True(t, ok, "span %s has no attribute %s", span.Name, key) {
		return
	}
	assert.Equal(t, expected, v.Emit(), "attribute %s value mismatch", key)
}

// AssertNoSpanAttribute asserts that span does not carry key.
func AssertNoSpanAttribute(t *testing.T, span tracetest.SpanStub, key string) {
	t.Helper()

	_, ok := SpanAttribute(span, key)
	assert.False(t, ok, "span %s unexpectedly has attribute %s", span.Name, key)
}

// AssertSpanError asserts an error status with the given description.
func AssertSpanError(t *testing.T, span tracetest.SpanStub, description string) {
	t.Helper()

	assert.Equal(t, codes.Error, span.Status.Code)
	assert.Equal(t, description, span.Status.Description)
}

// AssertSpanOK asserts that span was not marked as failed.
func AssertSpanOK(t *testing.T, span tracetest.SpanStub) {
	t.Helper()

	assert.NotEqual(t, codes.Error, span.Status.Code, "span %s: %s", span.Name, span.Status.Description)
}
