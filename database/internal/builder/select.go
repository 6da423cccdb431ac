package builder

import (
	dbtypes "github.com/digit-health/dtoquery/database/types"
)

// Select builds `SELECT * FROM <table> [WHERE a=:a AND b=:b]` from every present
// scalar field of v's graph, nested structs included, in declaration order.
func (qb *QueryBuilder) Select(v any) (string, error) {
	meta, err := qb.Metadata(v)
	if err != nil {
		return "", err
	}

	table, err := meta.RequireTable()
	if err != nil {
		return "", err
	}

	candidates, err := qb.walker.Collect(v, dbtypes.Present)
	if err != nil {
		return "", err
	}

	sb := qb.statementBuilder.Select(selectAll).From(table)
	for _, pred := range predicates(candidates) {
		sb = sb.Where(pred)
	}

	query, _, err := sb.ToSql()
	if err != nil {
		return "", dbtypes.NewFieldError(dbtypes.KindInvalidEntity, meta.TypeName, "", "cannot render select statement", err)
	}
	return query, nil
}
