// Package tracking records executions of named statements: structured log
// events with slow statement detection, an OpenTelemetry span and call metrics.
package tracking

import (
	"time"

	"github.com/digit-health/dtoquery/config"
)

const (
	// DefaultSlowQueryThreshold defines the default threshold for slow statement detection
	DefaultSlowQueryThreshold = 200 * time.Millisecond
	// DefaultMaxQueryLength defines the default maximum statement length for logging
	DefaultMaxQueryLength = 1000
)

// Settings controls how executions are logged.
type Settings struct {
	slowQueryThreshold time.Duration
	maxQueryLength     int
	logQueryParameters bool
}

// NewSettings creates Settings from the database configuration.
// A nil cfg or a non-positive threshold or length falls back to the defaults.
func NewSettings(cfg *config.DatabaseConfig) Settings {
	settings := Settings{
		slowQueryThreshold: DefaultSlowQueryThreshold,
		maxQueryLength:     DefaultMaxQueryLength,
	}

	if cfg == nil {
		return settings
	}

	if cfg.Query.Slow.Threshold > 0 {
		settings.slowQueryThreshold = cfg.Query.Slow.Threshold
	}
	if cfg.Query.Log.MaxLength > 0 {
		settings.maxQueryLength = cfg.Query.Log.MaxLength
	}
	settings.logQueryParameters = cfg.Query.Log.Parameters

	return settings
}

// SlowQueryThreshold returns the threshold for slow statement detection
func (s Settings) SlowQueryThreshold() time.Duration {
	return s.slowQueryThreshold
}

// MaxQueryLength returns the maximum statement length for logging
func (s Settings) MaxQueryLength() int {
	return s.maxQueryLength
}

// LogQueryParameters returns whether bound arguments should be logged
func (s Settings) LogQueryParameters() bool {
	return s.logQueryParameters
}
