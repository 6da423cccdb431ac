package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured marks an optional section, such as database, that was left unset.
var ErrNotConfigured = errors.New("not configured")

// Error categories of ConfigError.
const (
	CategoryMissing       = "missing"
	CategoryInvalid       = "invalid"
	CategoryNotConfigured = "not_configured"
)

// ConfigError describes a configuration key that cannot be used, and how to fix it.
//
// Error() renders as `dtoquery config <category>: <field> <message> (<action>)`, e.g.
//
//	dtoquery config missing: database.host is required (set DTOQUERY_DATABASE_HOST or database.host in config.yaml)
//
//nolint:revive // ConfigError reads better than Error at call sites outside the package
type ConfigError struct {
	Category string // one of the Category* constants
	Field    string // koanf key path, e.g. "database.pool.max"
	Message  string
	Action   string // how to fix it, naming the env var and YAML key
	Cause    error  // underlying validator or parse failure, if any
}

func (e *ConfigError) Error() string {
	var sb strings.Builder
	sb.WriteString("dtoquery config ")
	sb.WriteString(e.Category)
	sb.WriteString(":")
	if e.Field != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Field)
	}
	if e.Message != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Message)
	}
	if e.Action != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Action)
		sb.WriteString(")")
	}
	return sb.String()
}

// Unwrap returns the underlying failure, or ErrNotConfigured for not_configured errors.
func (e *ConfigError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	if e.Category == CategoryNotConfigured {
		return ErrNotConfigured
	}
	return nil
}

// EnvVar returns the environment variable that overrides a koanf key path.
//
//	EnvVar("database.pool.max") // "DTOQUERY_DATABASE_POOL_MAX"
func EnvVar(field string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(field, ".", "_"))
}

func setAction(field string) string {
	return fmt.Sprintf("set %s or %s in %s", EnvVar(field), field, DefaultFile)
}

// NewMissingFieldError reports a required key that has no value.
func NewMissingFieldError(field string) *ConfigError {
	return &ConfigError{
		Category: CategoryMissing,
		Field:    field,
		Message:  "is required",
		Action:   setAction(field),
	}
}

// NewInvalidFieldError reports a key whose value is not accepted.
func NewInvalidFieldError(field, message string, validOptions []string) *ConfigError {
	err := &ConfigError{
		Category: CategoryInvalid,
		Field:    field,
		Message:  message,
	}
	if len(validOptions) > 0 {
		err.Action = "use one of: " + strings.Join(validOptions, ", ")
	}
	return err
}

// NewNotConfiguredError reports an optional section that is off because key is unset.
func NewNotConfiguredError(section, key string) *ConfigError {
	return &ConfigError{
		Category: CategoryNotConfigured,
		Field:    section,
		Message:  "is not configured",
		Action:   "to enable it, " + setAction(key),
	}
}

// NewValidationError reports a key that failed a rule other than presence or choice.
func NewValidationError(field, message string) *ConfigError {
	return &ConfigError{
		Category: CategoryInvalid,
		Field:    field,
		Message:  message,
	}
}

// IsNotConfigured reports whether err marks an optional section as unset.
func IsNotConfigured(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotConfigured) {
		return true
	}
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr) && cfgErr.Category == CategoryNotConfigured
}
