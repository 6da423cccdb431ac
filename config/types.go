package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config represents the overall configuration of the query layer.
// The embedded koanf.Koanf instance allows for flexible access to
// additional custom configurations not explicitly defined in the struct.
type Config struct {
	Query    QueryConfig    `koanf:"query" json:"query" yaml:"query" mapstructure:"query"`
	Database DatabaseConfig `koanf:"database" json:"database" yaml:"database" mapstructure:"database"`
	Log      LogConfig      `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`

	Observability ObservabilityConfig `koanf:"observability" json:"observability" yaml:"observability" mapstructure:"observability"`

	// k holds the underlying Koanf instance for flexible access to custom configurations
	k *koanf.Koanf `json:"-" yaml:"-" mapstructure:"-"`
}

// QueryConfig holds skeleton generation settings.
type QueryConfig struct {
	// Vendor selects column quoting and positional placeholder style: "postgresql", "oracle" or "" (generic)
	Vendor string       `koanf:"vendor" json:"vendor" yaml:"vendor" mapstructure:"vendor" validate:"omitempty,oneof=postgresql oracle"`
	Update UpdateConfig `koanf:"update" json:"update" yaml:"update" mapstructure:"update"`
}

// UpdateConfig holds UPDATE generation policy.
type UpdateConfig struct {
	// Unguarded allows UPDATE statements without WHERE when no identity field is set.
	// Default: false (fail closed).
	Unguarded bool `koanf:"unguarded" json:"unguarded" yaml:"unguarded" mapstructure:"unguarded"`
}

// DatabaseConfig holds database connection settings for the named template executor.
type DatabaseConfig struct {
	Type     string `koanf:"type" json:"type" yaml:"type" mapstructure:"type" validate:"omitempty,oneof=postgresql oracle"`
	Host     string `koanf:"host" json:"host" yaml:"host" mapstructure:"host"`
	Port     int    `koanf:"port" json:"port" yaml:"port" mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Database string `koanf:"database" json:"database" yaml:"database" mapstructure:"database"`
	Username string `koanf:"username" json:"username" yaml:"username" mapstructure:"username"`
	Password string `koanf:"password" json:"password" yaml:"password" mapstructure:"password"`
	SSLMode  string `koanf:"sslmode" json:"sslmode" yaml:"sslmode" mapstructure:"sslmode"`

	// Oracle-specific settings
	ServiceName string `koanf:"servicename" json:"servicename" yaml:"servicename" mapstructure:"servicename"`
	SID         string `koanf:"sid" json:"sid" yaml:"sid" mapstructure:"sid"`

	// ConnectionString overrides the individual connection fields
	ConnectionString string `koanf:"connectionstring" json:"connectionstring" yaml:"connectionstring" mapstructure:"connectionstring"`

	Pool  PoolConfig     `koanf:"pool" json:"pool" yaml:"pool" mapstructure:"pool"`
	Query QueryLogConfig `koanf:"query" json:"query" yaml:"query" mapstructure:"query"`
}

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	Max      int32         `koanf:"max" json:"max" yaml:"max" mapstructure:"max" validate:"gte=0"`
	Idle     int32         `koanf:"idle" json:"idle" yaml:"idle" mapstructure:"idle" validate:"gte=0"`
	Lifetime time.Duration `koanf:"lifetime" json:"lifetime" yaml:"lifetime" mapstructure:"lifetime"`
	IdleTime time.Duration `koanf:"idletime" json:"idletime" yaml:"idletime" mapstructure:"idletime"`
}

// QueryLogConfig holds statement tracking settings.
type QueryLogConfig struct {
	Slow SlowQueryConfig    `koanf:"slow" json:"slow" yaml:"slow" mapstructure:"slow"`
	Log  StatementLogConfig `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`
}

// SlowQueryConfig holds slow statement detection settings.
type SlowQueryConfig struct {
	// Threshold above which an execution is logged as slow. Default: 200ms.
	Threshold time.Duration `koanf:"threshold" json:"threshold" yaml:"threshold" mapstructure:"threshold"`
}

// StatementLogConfig holds statement logging settings.
type StatementLogConfig struct {
	// Parameters enables logging of bound arguments (sensitive names are masked)
	Parameters bool `koanf:"parameters" json:"parameters" yaml:"parameters" mapstructure:"parameters"`
	// MaxLength truncates logged statements and arguments. Default: 1000.
	MaxLength int `koanf:"maxlength" json:"maxlength" yaml:"maxlength" mapstructure:"maxlength" validate:"gte=0"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" mapstructure:"level" validate:"required,oneof=trace debug info warn error"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty" mapstructure:"pretty"`
}

// ObservabilityConfig holds OpenTelemetry export settings for statement spans and metrics.
// When disabled, the providers are no-ops.
type ObservabilityConfig struct {
	Enabled     bool                `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Service     ServiceConfig       `koanf:"service" json:"service" yaml:"service" mapstructure:"service"`
	Environment string              `koanf:"environment" json:"environment" yaml:"environment" mapstructure:"environment"`
	Trace       TraceExportConfig   `koanf:"trace" json:"trace" yaml:"trace" mapstructure:"trace"`
	Metrics     MetricsExportConfig `koanf:"metrics" json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// ServiceConfig identifies the service in exported telemetry.
type ServiceConfig struct {
	Name    string `koanf:"name" json:"name" yaml:"name" mapstructure:"name"`
	Version string `koanf:"version" json:"version" yaml:"version" mapstructure:"version"`
}

// TraceExportConfig holds span export settings.
type TraceExportConfig struct {
	Enabled bool `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is "stdout" or an OTLP collector address
	Endpoint string `koanf:"endpoint" json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
	// Protocol is "http" or "grpc"; ignored for stdout
	Protocol string            `koanf:"protocol" json:"protocol" yaml:"protocol" mapstructure:"protocol" validate:"omitempty,oneof=http grpc"`
	Insecure bool              `koanf:"insecure" json:"insecure" yaml:"insecure" mapstructure:"insecure"`
	Headers  map[string]string `koanf:"headers" json:"headers" yaml:"headers" mapstructure:"headers"`
	// SampleRate is the fraction of traces recorded, in [0, 1]
	SampleRate float64 `koanf:"samplerate" json:"samplerate" yaml:"samplerate" mapstructure:"samplerate" validate:"gte=0,lte=1"`
}

// MetricsExportConfig holds metric export settings.
type MetricsExportConfig struct {
	Enabled  bool              `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Endpoint string            `koanf:"endpoint" json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
	Protocol string            `koanf:"protocol" json:"protocol" yaml:"protocol" mapstructure:"protocol" validate:"omitempty,oneof=http grpc"`
	Insecure bool              `koanf:"insecure" json:"insecure" yaml:"insecure" mapstructure:"insecure"`
	Headers  map[string]string `koanf:"headers" json:"headers" yaml:"headers" mapstructure:"headers"`
	// Interval between periodic exports. Default: 60s.
	Interval time.Duration `koanf:"interval" json:"interval" yaml:"interval" mapstructure:"interval"`
}

// Koanf returns the underlying koanf instance, or nil for configs not produced by a loader.
func (c *Config) Koanf() *koanf.Koanf {
	return c.k
}

// GetString retrieves a string value from the configuration or the provided default.
func (c *Config) GetString(key string, defaultVal ...string) string {
	if c == nil || c.k == nil || !c.k.Exists(key) {
		if len(defaultVal) > 0 {
			return defaultVal[0]
		}
		return ""
	}
	return c.k.String(key)
}
