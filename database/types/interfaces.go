// Package types contains the shared query-construction types: entity field descriptors,
// field checkers, the error taxonomy and the executor-facing interfaces.
// They live apart from the database package so internal packages can import them
// without import cycles.
//
//nolint:revive // Package name "types" is intentionally generic to avoid circular
package types

// Database vendor identifiers shared across the database packages.
type Vendor = string

const (
	PostgreSQL Vendor = "postgresql"
	Oracle     Vendor = "oracle"
)

// Tabler is implemented by entities that bind themselves to a table.
// It takes precedence over a `table:"..."` tag on a blank marker field.
//
// Example:
//
//	type Household struct {
//	    ID   *string `db:"id,identity"`
//	    Name *string `db:"name"`
//	}
//
//	func (Household) TableName() string { return "household" }
type Tabler interface {
	TableName() string
}

// Candidate is one field selected by a walk, in emission order.
type Candidate struct {
	// Name is the placeholder name (rendered as :Name)
	Name string

	// Column is the vendor-quoted column name
	Column string

	// Path is the dotted Go field path from the root entity (e.g., "Address.Line1")
	Path string
}

// Predicate renders the candidate as `column=:name`.
func (c Candidate) Predicate() string {
	return c.Column + "=:" + c.Name
}
