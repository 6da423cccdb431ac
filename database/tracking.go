package database

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/digit-health/dtoquery/config"
	"github.com/digit-health/dtoquery/database/internal/tracking"
)

// TrackingSettings controls slow statement detection and statement logging.
type TrackingSettings = tracking.Settings

// Re-export internal constants
const (
	DefaultSlowQueryThreshold = tracking.DefaultSlowQueryThreshold
	DefaultMaxQueryLength     = tracking.DefaultMaxQueryLength
)

// NewTrackingSettings derives tracking settings from the database configuration.
// A nil cfg yields the defaults.
func NewTrackingSettings(cfg *config.DatabaseConfig) TrackingSettings {
	return tracking.NewSettings(cfg)
}

type templateOptions struct {
	builder  []Option
	tracking []tracking.Option
	settings TrackingSettings
}

// TemplateOption configures a NamedTemplate.
type TemplateOption func(*templateOptions)

// WithBuilderOptions configures the QueryBuilder used by SelectEntity, UpdateEntity and binding.
func WithBuilderOptions(opts ...Option) TemplateOption {
	return func(o *templateOptions) {
		o.builder = append(o.builder, opts...)
	}
}

// WithTrackingSettings replaces the default tracking settings.
func WithTrackingSettings(settings TrackingSettings) TemplateOption {
	return func(o *templateOptions) {
		o.settings = settings
	}
}

// WithTracerProvider sets the tracer provider for statement spans. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) TemplateOption {
	return func(o *templateOptions) {
		o.tracking = append(o.tracking, tracking.WithTracerProvider(tp))
	}
}

// WithMeterProvider sets the meter provider for statement metrics. Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) TemplateOption {
	return func(o *templateOptions) {
		o.tracking = append(o.tracking, tracking.WithMeterProvider(mp))
	}
}
