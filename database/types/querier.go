//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import (
	"context"
	"database/sql"
)

// Querier is the execution surface the named template binds onto.
// *sql.DB, *sql.Tx and *sql.Conn all satisfy it.
//
// Usage in tests:
//
//	db, mock, _ := sqlmock.New()
//	tmpl := database.NewNamedTemplate(db, dbtypes.PostgreSQL, log)
type Querier interface {
	// QueryContext executes a query that returns rows, typically a SELECT.
	// The caller is responsible for closing the returned rows.
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// QueryRowContext executes a query expected to return at most one row.
	// Errors are deferred until the row's Scan method is called.
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row

	// ExecContext executes a statement that doesn't return rows, typically an UPDATE.
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Row is the single-row result of NamedTemplate.QueryRow. *sql.Row satisfies it.
type Row interface {
	// Scan copies the columns of the row into dest. sql.ErrNoRows is returned
	// when the query matched nothing.
	Scan(dest ...any) error

	// Err reports a deferred query error without scanning.
	Err() error
}
