package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/digit-health/dtoquery/logger"
)

const (
	defaultOperation = "query"
	unknownTable     = "unknown"

	instrumentationName = "dtoquery/database"
	maxDBQueryAttrLen   = 2000

	metricDBCalls      = "db.client.calls"
	metricDBDuration   = "db.client.operation.duration"
	metricRowsAffected = "db.rows.affected"

	attrDBSystem     = "db.system"
	attrDBOperation  = "db.operation.name"
	attrDBCollection = "db.collection.name"
)

// Operation describes one completed statement execution.
type Operation struct {
	Query string
	Args  []any

	// Names holds the placeholder name of each argument, in the same order as Args.
	// Arguments whose name looks sensitive are masked in logs.
	Names []string

	Start        time.Time
	RowsAffected int64
	Err          error
}

// Tracker emits logs, spans and metrics for statement executions of one vendor.
type Tracker struct {
	logger   logger.Logger
	vendor   string
	settings Settings
	filter   *logger.SensitiveDataFilter

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	tracer       trace.Tracer
	calls        metric.Int64Counter
	duration     metric.Float64Histogram
	rowsAffected metric.Int64Counter
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Tracker) {
		if tp != nil {
			t.tracerProvider = tp
		}
	}
}

// WithMeterProvider replaces the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(t *Tracker) {
		if mp != nil {
			t.meterProvider = mp
		}
	}
}

// WithFilter sets the filter deciding which argument names are masked.
func WithFilter(f *logger.SensitiveDataFilter) Option {
	return func(t *Tracker) {
		if f != nil {
			t.filter = f
		}
	}
}

// New creates a Tracker. A nil log disables logging but spans and metrics are still recorded.
func New(log logger.Logger, vendor string, settings Settings, opts ...Option) *Tracker {
	if log == nil {
		log = logger.Nop()
	}

	t := &Tracker{
		logger:         log,
		vendor:         vendor,
		settings:       settings,
		filter:         logger.NewSensitiveDataFilter(nil),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.tracer = t.tracerProvider.Tracer(instrumentationName)
	t.initInstruments()
	return t
}

// initInstruments creates the metric instruments. Failures are logged and the
// instrument is skipped.
func (t *Tracker) initInstruments() {
	meter := t.meterProvider.Meter(instrumentationName)

	var err error
	t.calls, err = meter.Int64Counter(metricDBCalls,
		metric.WithDescription("Total number of database client calls"))
	t.logInstrumentError(metricDBCalls, err)

	t.duration, err = meter.Float64Histogram(metricDBDuration,
		metric.WithDescription("Duration of database operations in milliseconds"),
		metric.WithUnit("ms"))
	t.logInstrumentError(metricDBDuration, err)

	t.rowsAffected, err = meter.Int64Counter(metricRowsAffected,
		metric.WithDescription("Number of rows affected by database operations"))
	t.logInstrumentError(metricRowsAffected, err)
}

func (t *Tracker) logInstrumentError(name string, err error) {
	if err != nil {
		t.logger.Warn().Err(err).Str("metric", name).Msg("Failed to initialize metric")
	}
}

// Vendor returns the vendor recorded on every event.
func (t *Tracker) Vendor() string {
	return t.vendor
}

// Settings returns the logging settings.
func (t *Tracker) Settings() Settings {
	return t.settings
}

// Track records a completed execution. sql.ErrNoRows is an empty result, not a failure.
func (t *Tracker) Track(ctx context.Context, op Operation) {
	if ctx == nil {
		ctx = context.Background()
	}

	elapsed := time.Since(op.Start)

	t.recordSpan(ctx, op)
	t.recordMetrics(ctx, op, elapsed)

	fields := map[string]any{
		"vendor":      t.vendor,
		"duration_ms": elapsed.Milliseconds(),
		"query":       TruncateString(op.Query, t.settings.MaxQueryLength()),
	}
	if op.RowsAffected > 0 {
		fields["rows_affected"] = op.RowsAffected
	}
	if t.settings.LogQueryParameters() && len(op.Args) > 0 {
		fields["args"] = t.SanitizeArgs(op.Names, op.Args)
	}

	logEvent := t.logger.WithContext(ctx).WithFields(fields)

	switch {
	case op.Err != nil && errors.Is(op.Err, sql.ErrNoRows):
		logEvent.Debug().Msg("Statement returned no rows")
	case op.Err != nil:
		logEvent.Error().Err(op.Err).Msg("Statement execution error")
	case elapsed > t.settings.SlowQueryThreshold():
		logEvent.Warn().Msgf("Slow statement detected (%s)", elapsed)
	default:
		logEvent.Debug().Msg("Statement executed")
	}
}

// SanitizeArgs returns a copy of args suitable for logging. Arguments bound to a
// sensitive placeholder name are masked, byte slices are summarized and the rest
// are formatted with %v and truncated to the configured length.
func (t *Tracker) SanitizeArgs(names []string, args []any) []any {
	if len(args) == 0 {
		return nil
	}

	maxLen := t.settings.MaxQueryLength()
	sanitized := make([]any, len(args))
	for i, arg := range args {
		if i < len(names) && t.filter.IsSensitive(names[i]) {
			sanitized[i] = t.filter.MaskValue()
			continue
		}

		switch v := arg.(type) {
		case nil:
			sanitized[i] = nil
		case string:
			sanitized[i] = TruncateString(v, maxLen)
		case []byte:
			sanitized[i] = fmt.Sprintf("<bytes len=%d>", len(v))
		default:
			sanitized[i] = TruncateString(fmt.Sprintf("%v", v), maxLen)
		}
	}
	return sanitized
}

// recordSpan creates a client span starting at op.Start and ending now.
func (t *Tracker) recordSpan(ctx context.Context, op Operation) {
	operation := extractDBOperation(op.Query)

	_, span := t.tracer.Start(ctx, "db."+operation,
		trace.WithTimestamp(op.Start),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.String(attrDBSystem, normalizeDBVendor(t.vendor)),
		semconv.DBQueryText(TruncateString(op.Query, maxDBQueryAttrLen)),
	}
	if operation != defaultOperation {
		attrs = append(attrs, semconv.DBOperationName(operation))
	}
	if table := extractTableName(op.Query); table != unknownTable {
		attrs = append(attrs, attribute.String(attrDBCollection, table))
	}
	span.SetAttributes(attrs...)

	if op.Err != nil && !errors.Is(op.Err, sql.ErrNoRows) {
		span.RecordError(op.Err)
		span.SetStatus(codes.Error, op.Err.Error())
	}
}

func (t *Tracker) recordMetrics(ctx context.Context, op Operation, elapsed time.Duration) {
	isError := op.Err != nil && !errors.Is(op.Err, sql.ErrNoRows)

	common := []attribute.KeyValue{
		attribute.String(attrDBSystem, normalizeDBVendor(t.vendor)),
		attribute.String(attrDBOperation, extractDBOperation(op.Query)),
		attribute.String(attrDBCollection, extractTableName(op.Query)),
	}

	if t.calls != nil {
		attrs := make([]attribute.KeyValue, 0, len(common)+1)
		attrs = append(attrs, common...)
		attrs = append(attrs, attribute.Bool("error", isError))
		t.calls.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if t.duration != nil {
		t.duration.Record(ctx, float64(elapsed.Nanoseconds())/1e6, metric.WithAttributes(common...))
	}

	if t.rowsAffected != nil && op.RowsAffected > 0 && !isError {
		t.rowsAffected.Add(ctx, op.RowsAffected, metric.WithAttributes(common...))
	}
}

// TruncateString truncates value to at most maxLen runes, ending with "..." when
// maxLen leaves room for it. A non-positive maxLen disables truncation.
func TruncateString(value string, maxLen int) string {
	if maxLen <= 0 {
		return value
	}
	r := []rune(value)
	if len(r) <= maxLen {
		return value
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// extractDBOperation returns the lowercase SQL command of query, or "query".
func extractDBOperation(query string) string {
	parts := strings.Fields(query)
	if len(parts) == 0 {
		return defaultOperation
	}

	operation := strings.ToLower(parts[0])
	switch operation {
	case "select", "insert", "update", "delete", "merge":
		return operation
	default:
		return defaultOperation
	}
}

// extractTableName returns the lowercase table following FROM, INTO or UPDATE.
// Schema qualifiers and quotes are stripped.
func extractTableName(query string) string {
	parts := strings.Fields(query)
	for i := 0; i < len(parts)-1; i++ {
		switch strings.ToUpper(parts[i]) {
		case "FROM", "INTO":
		case "UPDATE":
			if i != 0 {
				continue
			}
		default:
			continue
		}

		table := parts[i+1]
		if dot := strings.LastIndexByte(table, '.'); dot >= 0 {
			table = table[dot+1:]
		}
		table = strings.Trim(table, "\"`'();,")
		if table != "" {
			return strings.ToLower(table)
		}
	}
	return unknownTable
}

// normalizeDBVendor maps vendor names onto OTel db.system values.
func normalizeDBVendor(vendor string) string {
	vendor = strings.ToLower(vendor)
	switch vendor {
	case "postgres", "postgresql":
		return "postgresql"
	case "oracle":
		return "oracle"
	case "":
		return "other_sql"
	default:
		return vendor
	}
}
