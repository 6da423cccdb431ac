package database

import "github.com/digit-health/dtoquery/database/types"

// Re-export database vendor identifiers so callers need only the database package.
const (
	PostgreSQL = types.PostgreSQL
	Oracle     = types.Oracle
)
