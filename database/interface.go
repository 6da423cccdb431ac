package database

import (
	"github.com/digit-health/dtoquery/database/types"
)

// Querier is the execution surface of a NamedTemplate; *sql.DB, *sql.Tx and *sql.Conn satisfy it.
type Querier = types.Querier

// QueryBuilderError is the error returned by skeleton generation and binding.
type QueryBuilderError = types.QueryBuilderError
