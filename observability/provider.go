// Package observability sets up the OpenTelemetry tracer and meter providers
// that receive the statement spans and metrics of database.NamedTemplate.
//
// Typical wiring:
//
//	provider, err := observability.NewProvider(&cfg.Observability, log)
//	if err != nil { ... }
//	defer observability.Shutdown(provider, 0)
//
//	tmpl, db, err := database.OpenTemplate(cfg, log,
//	    database.WithTracerProvider(provider.TracerProvider()),
//	    database.WithMeterProvider(provider.MeterProvider()))
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/digit-health/dtoquery/config"
	"github.com/digit-health/dtoquery/logger"
)

const (
	// EndpointStdout writes telemetry to the provider's writer instead of a collector.
	EndpointStdout = "stdout"

	// ProtocolHTTP selects OTLP over HTTP/protobuf.
	ProtocolHTTP = "http"

	// ProtocolGRPC selects OTLP over gRPC.
	ProtocolGRPC = "grpc"

	defaultMetricInterval = 60 * time.Second
)

// Provider manages the lifecycle of the tracer and meter providers.
type Provider interface {
	// TracerProvider returns the configured tracer provider, or a no-op one.
	TracerProvider() trace.TracerProvider

	// MeterProvider returns the configured meter provider, or a no-op one.
	MeterProvider() metric.MeterProvider

	// Shutdown flushes pending telemetry and stops the exporters.
	Shutdown(ctx context.Context) error

	// ForceFlush exports pending telemetry immediately.
	ForceFlush(ctx context.Context) error
}

type options struct {
	writer io.Writer
	global bool
}

// Option configures NewProvider.
type Option func(*options)

// WithWriter sets the destination of the stdout exporters. Defaults to os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithGlobal controls whether the providers and the W3C propagator are installed
// as the otel globals. Defaults to true.
func WithGlobal(register bool) Option {
	return func(o *options) {
		o.global = register
	}
}

type provider struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	mu             sync.Mutex
}

// NewProvider creates providers according to cfg. A nil or disabled cfg yields
// no-op providers.
func NewProvider(cfg *config.ObservabilityConfig, log logger.Logger, opts ...Option) (Provider, error) {
	if log == nil {
		log = logger.Nop()
	}
	o := &options{writer: os.Stdout, global: true}
	for _, opt := range opts {
		opt(o)
	}

	if cfg == nil || !cfg.Enabled {
		log.Debug().Msg("Observability disabled, using no-op providers")
		return newNoopProvider(), nil
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	p := &provider{}

	if cfg.Trace.Enabled {
		exporter, err := newTraceExporter(&cfg.Trace, o.writer)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		p.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithBatcher(exporter),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.Trace.SampleRate)),
		)
		log.Debug().
			Str("endpoint", cfg.Trace.Endpoint).
			Str("protocol", cfg.Trace.Protocol).
			Msg("Trace provider initialized")
	}

	if cfg.Metrics.Enabled {
		exporter, err := newMetricExporter(&cfg.Metrics, o.writer)
		if err != nil {
			p.shutdownQuietly()
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		interval := cfg.Metrics.Interval
		if interval <= 0 {
			interval = defaultMetricInterval
		}
		p.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
		)
		log.Debug().
			Str("endpoint", cfg.Metrics.Endpoint).
			Dur("interval", interval).
			Msg("Meter provider initialized")
	}

	if o.global {
		p.registerGlobals()
	}

	log.Info().
		Str("service", cfg.Service.Name).
		Msg("Observability provider created")
	return p, nil
}

func validate(cfg *config.ObservabilityConfig) error {
	if cfg.Service.Name == "" {
		return ErrMissingServiceName
	}
	if cfg.Trace.SampleRate < 0 || cfg.Trace.SampleRate > 1 {
		return ErrInvalidSampleRate
	}
	return nil
}

func newResource(cfg *config.ObservabilityConfig) (*resource.Resource, error) {
	custom, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.Service.Name),
			semconv.ServiceVersion(cfg.Service.Version),
			semconv.DeploymentEnvironmentName(cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}
	return resource.Merge(resource.Default(), custom)
}

func (p *provider) registerGlobals() {
	if p.tracerProvider != nil {
		otel.SetTracerProvider(p.tracerProvider)
	}
	if p.meterProvider != nil {
		otel.SetMeterProvider(p.meterProvider)
	}
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

func (p *provider) TracerProvider() trace.TracerProvider {
	if p.tracerProvider == nil {
		return tracenoop.NewTracerProvider()
	}
	return p.tracerProvider
}

func (p *provider) MeterProvider() metric.MeterProvider {
	if p.meterProvider == nil {
		return metricnoop.NewMeterProvider()
	}
	return p.meterProvider
}

func (p *provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown trace provider: %w", err))
		}
	}
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (p *provider) ForceFlush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.tracerProvider != nil {
		if err := p.tracerProvider.ForceFlush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush trace provider: %w", err))
		}
	}
	if p.meterProvider != nil {
		if err := p.meterProvider.ForceFlush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

// shutdownQuietly releases a partially built provider.
func (p *provider) shutdownQuietly() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = p.Shutdown(ctx)
}

// noopProvider is returned when observability is disabled.
type noopProvider struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

func newNoopProvider() *noopProvider {
	return &noopProvider{
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
	}
}

func (n *noopProvider) TracerProvider() trace.TracerProvider { return n.tracerProvider }
func (n *noopProvider) MeterProvider() metric.MeterProvider  { return n.meterProvider }
func (n *noopProvider) Shutdown(context.Context) error       { return nil }
func (n *noopProvider) ForceFlush(context.Context) error     { return nil }
