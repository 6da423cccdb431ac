// Package builder renders SQL skeletons (statements with named placeholders and
// no literal values) from entity instances, and rewrites named statements into
// vendor-specific positional form.
package builder

import (
	"github.com/Masterminds/squirrel"

	"github.com/digit-health/dtoquery/database/internal/entity"
	"github.com/digit-health/dtoquery/database/internal/walker"
	dbtypes "github.com/digit-health/dtoquery/database/types"
)

const (
	selectAll    = "*"
	andSeparator = " AND "
	setSeparator = " , "
)

// QueryBuilder provides skeleton generation for one database vendor.
// It wraps squirrel.StatementBuilderType configured with the vendor's placeholder
// format, and a walker over the shared metadata registry.
type QueryBuilder struct {
	vendor           dbtypes.Vendor
	statementBuilder squirrel.StatementBuilderType
	registry         *entity.Registry
	walker           *walker.Walker
	unguarded        bool
}

// Option configures a QueryBuilder.
type Option func(*QueryBuilder)

// WithRegistry makes the builder read metadata from registry instead of the default one.
func WithRegistry(registry *entity.Registry) Option {
	return func(qb *QueryBuilder) {
		if registry != nil {
			qb.registry = registry
		}
	}
}

// WithUnguardedUpdates allows UPDATE statements without a WHERE clause when an
// entity has no present identity field.
func WithUnguardedUpdates(allow bool) Option {
	return func(qb *QueryBuilder) {
		qb.unguarded = allow
	}
}

// NewQueryBuilder creates a new query builder for the specified database vendor.
func NewQueryBuilder(vendor dbtypes.Vendor, opts ...Option) *QueryBuilder {
	qb := &QueryBuilder{
		vendor:           vendor,
		statementBuilder: squirrel.StatementBuilder.PlaceholderFormat(PlaceholderFormat(vendor)),
		registry:         entity.Default(),
	}
	for _, opt := range opts {
		opt(qb)
	}
	qb.walker = walker.New(qb.registry, vendor)
	return qb
}

// PlaceholderFormat returns the squirrel placeholder format for a vendor.
func PlaceholderFormat(vendor dbtypes.Vendor) squirrel.PlaceholderFormat {
	switch vendor {
	case dbtypes.PostgreSQL:
		// PostgreSQL uses $1, $2, ... placeholders
		return squirrel.Dollar
	case dbtypes.Oracle:
		// Oracle uses :1, :2, ... placeholders
		return squirrel.Colon
	default:
		// Default to question mark placeholders
		return squirrel.Question
	}
}

// Vendor returns the database vendor string
func (qb *QueryBuilder) Vendor() string {
	return qb.vendor
}

// Unguarded reports whether UPDATE statements may omit the WHERE clause.
func (qb *QueryBuilder) Unguarded() bool {
	return qb.unguarded
}

// Metadata returns the entity metadata for v.
func (qb *QueryBuilder) Metadata(v any) (*entity.Metadata, error) {
	return qb.registry.Of(qb.vendor, v)
}

// Walker returns the walker used by this builder.
func (qb *QueryBuilder) Walker() *walker.Walker {
	return qb.walker
}

// predicates renders candidates as `column=:name`.
func predicates(candidates []dbtypes.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Predicate()
	}
	return out
}

// Table returns the table bound to v's type, or MissingTableMetadata.
func (qb *QueryBuilder) Table(v any) (string, error) {
	meta, err := qb.Metadata(v)
	if err != nil {
		return "", err
	}
	return meta.RequireTable()
}

// Columns returns the present scalar fields of v's graph in emission order,
// which are the predicates Select would render.
func (qb *QueryBuilder) Columns(v any) ([]dbtypes.Candidate, error) {
	return qb.walker.Collect(v, dbtypes.Present)
}

// Warm parses the metadata of entities ahead of first use.
func (qb *QueryBuilder) Warm(entities ...any) error {
	return qb.registry.Warm(qb.vendor, entities...)
}
