package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/digit-health/dtoquery/config"
	"github.com/digit-health/dtoquery/database/internal/rowtracker"
	"github.com/digit-health/dtoquery/database/internal/sqllex"
	"github.com/digit-health/dtoquery/database/internal/tracking"
	"github.com/digit-health/dtoquery/database/types"
	"github.com/digit-health/dtoquery/logger"
)

// NamedTemplate executes statements with `:name` placeholders, binding each name
// to the field of the same name on an entity. Every execution is logged, traced
// and measured.
//
// Example:
//
//	tmpl := database.NewNamedTemplate(db, database.PostgreSQL, log)
//	res, err := tmpl.UpdateEntity(ctx, &household)
//
// A NamedTemplate is safe for concurrent use when its Querier is.
type NamedTemplate struct {
	db      Querier
	builder *QueryBuilder
	tracker *tracking.Tracker
}

// NewNamedTemplate creates a template executing on db for the given vendor.
func NewNamedTemplate(db Querier, vendor string, log logger.Logger, opts ...TemplateOption) *NamedTemplate {
	if log == nil {
		log = logger.Nop()
	}

	o := &templateOptions{settings: tracking.NewSettings(nil)}
	for _, opt := range opts {
		opt(o)
	}

	builderOpts := append([]Option{WithLogger(log)}, o.builder...)
	return &NamedTemplate{
		db:      db,
		builder: NewQueryBuilder(vendor, builderOpts...),
		tracker: tracking.New(log, vendor, o.settings, o.tracking...),
	}
}

// NewNamedTemplateFromConfig creates a template whose vendor, update policy and
// tracking settings come from cfg. query.vendor takes precedence over database.type.
func NewNamedTemplateFromConfig(db Querier, cfg *config.Config, log logger.Logger, opts ...TemplateOption) *NamedTemplate {
	vendor := cfg.Query.Vendor
	if vendor == "" {
		vendor = cfg.Database.Type
	}

	base := []TemplateOption{
		WithBuilderOptions(WithUnguardedUpdates(cfg.Query.Update.Unguarded)),
		WithTrackingSettings(tracking.NewSettings(&cfg.Database)),
	}
	return NewNamedTemplate(db, vendor, log, append(base, opts...)...)
}

// Builder returns the query builder used for skeletons and binding.
func (t *NamedTemplate) Builder() *QueryBuilder {
	return t.builder
}

// Query binds v to query and executes it. The caller must close the rows.
func (t *NamedTemplate) Query(ctx context.Context, query string, v any) (*sql.Rows, error) {
	positional, args, err := t.builder.Bind(query, v)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := t.db.QueryContext(ctx, positional, args...)
	t.track(ctx, query, positional, args, start, 0, err)

	return rows, err
}

// QueryRow binds v to query and executes it expecting at most one row.
// The execution is tracked when the row is scanned.
func (t *NamedTemplate) QueryRow(ctx context.Context, query string, v any) (types.Row, error) {
	positional, args, err := t.builder.Bind(query, v)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	row := t.db.QueryRowContext(ctx, positional, args...)

	return rowtracker.Wrap(row, func(err error) {
		t.track(ctx, query, positional, args, start, 0, err)
	}), nil
}

// Exec binds v to query and executes it without returning rows.
func (t *NamedTemplate) Exec(ctx context.Context, query string, v any) (sql.Result, error) {
	positional, args, err := t.builder.Bind(query, v)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := t.db.ExecContext(ctx, positional, args...)
	t.track(ctx, query, positional, args, start, rowsAffected(result, err), err)

	return result, err
}

// SelectEntity builds the SELECT skeleton of v and executes it.
func (t *NamedTemplate) SelectEntity(ctx context.Context, v any) (*sql.Rows, error) {
	query, err := t.builder.Select(v)
	if err != nil {
		return nil, err
	}
	return t.Query(ctx, query, v)
}

// UpdateEntity builds the UPDATE skeleton of v and executes it.
func (t *NamedTemplate) UpdateEntity(ctx context.Context, v any) (sql.Result, error) {
	query, err := t.builder.Update(v)
	if err != nil {
		return nil, err
	}
	return t.Exec(ctx, query, v)
}

// track records the positional statement; the named one supplies the argument
// names used to mask sensitive values.
func (t *NamedTemplate) track(ctx context.Context, named, positional string, args []any, start time.Time, affected int64, err error) {
	t.tracker.Track(ctx, tracking.Operation{
		Query:        positional,
		Args:         args,
		Names:        sqllex.NamedParameters(named),
		Start:        start,
		RowsAffected: affected,
		Err:          err,
	})
}

// rowsAffected is best effort: drivers that cannot report it count as zero.
func rowsAffected(result sql.Result, err error) int64 {
	if result == nil || err != nil {
		return 0
	}

	affected, affErr := result.RowsAffected()
	if affErr != nil {
		return 0
	}
	return affected
}
