// Package database builds SQL skeletons from entity structs and executes them
// through database/sql with named parameters.
//
// A skeleton is a statement whose values are `:name` placeholders:
//
//	type Household struct {
//	    _      struct{} `table:"household"`
//	    ID     *string  `db:"id,identity"`
//	    Name   *string  `db:"name"`
//	}
//
//	qb := database.NewQueryBuilder(database.PostgreSQL)
//	query, err := qb.Update(&Household{ID: &id, Name: &name})
//	// UPDATE household SET name=:name WHERE id=:id
package database

import (
	"github.com/digit-health/dtoquery/config"
	"github.com/digit-health/dtoquery/database/internal/builder"
	"github.com/digit-health/dtoquery/database/internal/entity"
	"github.com/digit-health/dtoquery/database/types"
	"github.com/digit-health/dtoquery/internal/reflection"
	"github.com/digit-health/dtoquery/logger"
)

// Registry caches parsed entity metadata per vendor.
type Registry = entity.Registry

// NewRegistry creates an empty metadata registry. Builders share a process-wide
// registry unless WithRegistry is used.
func NewRegistry() *Registry {
	return entity.NewRegistry()
}

// QueryBuilder generates SELECT and UPDATE skeletons for one database vendor.
// It is safe for concurrent use.
type QueryBuilder struct {
	inner  *builder.QueryBuilder
	logger logger.Logger
}

type queryBuilderOptions struct {
	logger   logger.Logger
	registry *Registry
	builder  []builder.Option
}

// Option configures a QueryBuilder.
type Option func(*queryBuilderOptions)

// WithUnguardedUpdates allows Update to render a statement without WHERE when the
// entity has no present identity field. By default such an update fails with
// types.ErrNoIdentityField.
func WithUnguardedUpdates(allow bool) Option {
	return func(o *queryBuilderOptions) {
		o.builder = append(o.builder, builder.WithUnguardedUpdates(allow))
	}
}

// WithLogger sets the logger receiving debug events for generated statements.
func WithLogger(log logger.Logger) Option {
	return func(o *queryBuilderOptions) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithRegistry makes the builder use registry instead of the process-wide one.
func WithRegistry(registry *Registry) Option {
	return func(o *queryBuilderOptions) {
		o.registry = registry
	}
}

// NewQueryBuilder creates a query builder for the specified database vendor.
// Unknown vendors get generic behavior: no column quoting and `?` placeholders.
func NewQueryBuilder(vendor string, opts ...Option) *QueryBuilder {
	o := &queryBuilderOptions{logger: logger.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry != nil {
		o.builder = append(o.builder, builder.WithRegistry(o.registry))
	}

	return &QueryBuilder{
		inner:  builder.NewQueryBuilder(vendor, o.builder...),
		logger: o.logger,
	}
}

// NewQueryBuilderFromConfig creates a query builder from the query section of cfg.
func NewQueryBuilderFromConfig(cfg *config.Config, log logger.Logger, opts ...Option) *QueryBuilder {
	base := []Option{
		WithUnguardedUpdates(cfg.Query.Update.Unguarded),
		WithLogger(log),
	}
	return NewQueryBuilder(cfg.Query.Vendor, append(base, opts...)...)
}

// Vendor returns the database vendor string
func (qb *QueryBuilder) Vendor() string {
	return qb.inner.Vendor()
}

// Select builds `SELECT * FROM <table> [WHERE a=:a AND ...]` from the present
// fields of v, nested structs included.
func (qb *QueryBuilder) Select(v any) (string, error) {
	query, err := qb.inner.Select(v)
	qb.logStatement("select", v, query, err)
	return query, err
}

// Update builds `UPDATE <table> SET a=:a , b=:b WHERE id=:id`.
func (qb *QueryBuilder) Update(v any) (string, error) {
	query, err := qb.inner.Update(v)
	qb.logStatement("update", v, query, err)
	return query, err
}

// Bind rewrites the `:name` placeholders of query into the vendor's positional form
// and returns the matching field values of v in order.
func (qb *QueryBuilder) Bind(query string, v any) (string, []any, error) {
	return qb.inner.Bind(query, v)
}

// Columns returns the fields Select would emit as predicates for v.
func (qb *QueryBuilder) Columns(v any) ([]types.Candidate, error) {
	return qb.inner.Columns(v)
}

// Table returns the table bound to v's type.
func (qb *QueryBuilder) Table(v any) (string, error) {
	return qb.inner.Table(v)
}

// Warm parses entity metadata ahead of first use, in parallel.
func (qb *QueryBuilder) Warm(entities ...any) error {
	return qb.inner.Warm(entities...)
}

func (qb *QueryBuilder) logStatement(kind string, v any, query string, err error) {
	ev := qb.logger.Debug().
		Str("statement", kind).
		Str("vendor", qb.Vendor()).
		Str("entity", reflection.EntityName(v))
	if err != nil {
		ev.Err(err).Msg("Skeleton generation failed")
		return
	}
	ev.Str("query", query).Msg("Skeleton generated")
}
