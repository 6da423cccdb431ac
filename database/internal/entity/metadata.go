package entity

import (
	"reflect"
	"strings"

	dbtypes "github.com/digit-health/dtoquery/database/types"
)

// Metadata represents cached metadata for an entity struct type: its table binding
// and its fields in declaration order.
//
// Metadata is immutable once returned by the registry and may be shared between goroutines.
type Metadata struct {
	// TypeName is the name of the struct type (e.g., "Household")
	TypeName string

	// Type is the struct type the metadata was parsed from
	Type reflect.Type

	// Table is the bound table name; empty when the type has no table binding
	Table string

	// Fields is the ordered list of all participating fields, unexported and `db:"-"` fields excluded
	Fields []dbtypes.Field

	// fieldsByName is an internal map for O(1) placeholder name lookups
	fieldsByName map[string]*dbtypes.Field
}

// HasTable reports whether the type is bound to a table.
func (m *Metadata) HasTable() bool {
	return m.Table != ""
}

// RequireTable returns the table name or a MissingTableMetadata error.
func (m *Metadata) RequireTable() (string, error) {
	if !m.HasTable() {
		return "", dbtypes.NewError(dbtypes.KindMissingTableMetadata, m.TypeName,
			"type has no table binding (add a TableName() method or a `table` tag on a blank field)")
	}
	return m.Table, nil
}

// Field retrieves a field by its placeholder name.
func (m *Metadata) Field(name string) (*dbtypes.Field, bool) {
	f, ok := m.fieldsByName[name]
	return f, ok
}

// Names returns the placeholder names of all fields in declaration order.
func (m *Metadata) Names() []string {
	names := make([]string, len(m.Fields))
	for i := range m.Fields {
		names[i] = m.Fields[i].Name
	}
	return names
}

// IdentityFields returns the fields carrying the identity marker, in declaration order.
func (m *Metadata) IdentityFields() []*dbtypes.Field {
	var out []*dbtypes.Field
	for i := range m.Fields {
		if m.Fields[i].Identity {
			out = append(out, &m.Fields[i])
		}
	}
	return out
}

// availableFieldsForError returns a comma-separated list of field names for error messages.
func (m *Metadata) availableFieldsForError() string {
	return strings.Join(m.Names(), ", ")
}
