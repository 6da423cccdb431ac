package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const defaultMaxQueryLength = 1000

// Database type constants
const (
	PostgreSQL = "postgresql"
	Oracle     = "oracle"
)

var structValidator = newStructValidator()

// newStructValidator reports field paths using koanf keys (database.pool.max)
// instead of Go field names.
func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks cfg and returns the first problem as a *ConfigError.
func Validate(cfg *Config) error {
	if err := structValidator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return fieldError(validationErrors[0])
		}
		return err
	}

	if err := validateDatabase(&cfg.Database); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if cfg.Observability.Enabled && strings.TrimSpace(cfg.Observability.Service.Name) == "" {
		return NewMissingFieldError("observability.service.name")
	}

	return nil
}

// IsDatabaseConfigured reports whether a database connection is configured.
func IsDatabaseConfigured(cfg *DatabaseConfig) bool {
	return cfg.Type != "" || cfg.Host != "" || cfg.ConnectionString != ""
}

// validateDatabase checks connection fields once a database is configured.
// Individual fields are ignored when a connection string is provided.
func validateDatabase(cfg *DatabaseConfig) error {
	if !IsDatabaseConfigured(cfg) {
		return nil
	}

	if cfg.Type == "" {
		return NewMissingFieldError("database.type")
	}

	if cfg.ConnectionString != "" {
		return nil
	}

	if cfg.Host == "" {
		return NewMissingFieldError("database.host")
	}
	if cfg.Port == 0 {
		return NewMissingFieldError("database.port")
	}

	if cfg.Type == Oracle && cfg.ServiceName == "" && cfg.SID == "" && cfg.Database == "" {
		return NewInvalidFieldError("database.servicename", "oracle requires one of servicename, sid or database", nil)
	}
	if cfg.Type == PostgreSQL && cfg.Database == "" {
		return NewMissingFieldError("database.database")
	}

	return nil
}

// fieldError converts a validator failure into a ConfigError keyed by the koanf path.
func fieldError(fe validator.FieldError) *ConfigError {
	// Namespace is "Config.database.pool.max"; drop the root struct name
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	var cfgErr *ConfigError
	switch fe.Tag() {
	case "required":
		cfgErr = NewMissingFieldError(field)
	case "oneof":
		cfgErr = NewInvalidFieldError(field, fmt.Sprintf("has unsupported value %q", fmt.Sprint(fe.Value())), strings.Fields(fe.Param()))
	default:
		cfgErr = NewValidationError(field, fmt.Sprintf("failed %s=%s validation (got %v)", fe.Tag(), fe.Param(), fe.Value()))
	}
	cfgErr.Cause = fe
	return cfgErr
}
