//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import (
	"errors"
	"strings"
)

// ErrorKind classifies query construction failures.
type ErrorKind string

const (
	// KindMissingTableMetadata means the entity type has no table binding.
	KindMissingTableMetadata ErrorKind = "missing_table_metadata"
	// KindFieldAccessFailure means a field value could not be read through reflection.
	KindFieldAccessFailure ErrorKind = "field_access_failure"
	// KindNoIdentityField means an UPDATE was requested without any present identity field.
	KindNoIdentityField ErrorKind = "no_identity_field"
	// KindNoUpdatableField means an UPDATE would have an empty SET list.
	KindNoUpdatableField ErrorKind = "no_updatable_field"
	// KindInvalidEntity means the value handed to a builder is not a struct (or pointer to one).
	KindInvalidEntity ErrorKind = "invalid_entity"
	// KindInvalidFieldName means a field name cannot be used as a column or named placeholder.
	KindInvalidFieldName ErrorKind = "invalid_field_name"
	// KindMissingParameter means a named placeholder has no matching entity field.
	KindMissingParameter ErrorKind = "missing_parameter"
)

// Sentinel errors for errors.Is() checks against *QueryBuilderError values.
var (
	ErrMissingTableMetadata = errors.New(string(KindMissingTableMetadata))
	ErrFieldAccessFailure   = errors.New(string(KindFieldAccessFailure))
	ErrNoIdentityField      = errors.New(string(KindNoIdentityField))
	ErrNoUpdatableField     = errors.New(string(KindNoUpdatableField))
	ErrInvalidEntity        = errors.New(string(KindInvalidEntity))
	ErrInvalidFieldName     = errors.New(string(KindInvalidFieldName))
	ErrMissingParameter     = errors.New(string(KindMissingParameter))
)

var sentinelsByKind = map[ErrorKind]error{
	KindMissingTableMetadata: ErrMissingTableMetadata,
	KindFieldAccessFailure:   ErrFieldAccessFailure,
	KindNoIdentityField:      ErrNoIdentityField,
	KindNoUpdatableField:     ErrNoUpdatableField,
	KindInvalidEntity:        ErrInvalidEntity,
	KindInvalidFieldName:     ErrInvalidFieldName,
	KindMissingParameter:     ErrMissingParameter,
}

// QueryBuilderError is the single error type surfaced by query construction.
// Builders return it together with an empty statement; partial SQL is never returned.
type QueryBuilderError struct {
	Kind    ErrorKind // machine-checkable failure class
	Entity  string    // entity type name, when known
	Field   string    // Go field name, when the failure is field-specific
	Message string    // human-readable description (lowercase)
	Err     error     // underlying cause, if any
}

// NewError creates a QueryBuilderError of the given kind for an entity.
func NewError(kind ErrorKind, entity, message string) *QueryBuilderError {
	return &QueryBuilderError{Kind: kind, Entity: entity, Message: message}
}

// NewFieldError creates a field-scoped QueryBuilderError wrapping cause.
func NewFieldError(kind ErrorKind, entity, field, message string, cause error) *QueryBuilderError {
	return &QueryBuilderError{Kind: kind, Entity: entity, Field: field, Message: message, Err: cause}
}

// Error implements the error interface.
func (e *QueryBuilderError) Error() string {
	var b strings.Builder
	b.WriteString("query builder: ")
	b.WriteString(string(e.Kind))

	if e.Entity != "" {
		b.WriteString(" (")
		b.WriteString(e.Entity)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
		b.WriteString(")")
	}

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap returns the underlying cause.
func (e *QueryBuilderError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind, or another
// QueryBuilderError of the same kind.
func (e *QueryBuilderError) Is(target error) bool {
	if sentinel, ok := sentinelsByKind[e.Kind]; ok && target == sentinel {
		return true
	}

	var other *QueryBuilderError
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// KindOf returns the ErrorKind of err if it is (or wraps) a QueryBuilderError.
func KindOf(err error) (ErrorKind, bool) {
	var qbErr *QueryBuilderError
	if errors.As(err, &qbErr) {
		return qbErr.Kind, true
	}
	return "", false
}
