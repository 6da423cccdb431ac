package builder

import (
	"strings"

	dbtypes "github.com/digit-health/dtoquery/database/types"
)

var (
	// whereChecker selects the top-level identity fields that are set
	whereChecker = dbtypes.And(dbtypes.IsIdentity, dbtypes.Present)

	// setChecker applies to top-level fields only; identity fields belong to WHERE
	setChecker = dbtypes.And(dbtypes.Present, dbtypes.Not(dbtypes.IsIdentity))
)

// Update builds `UPDATE <table> SET a=:a , b=:b WHERE id=:id`.
//
// WHERE uses the present identity fields of the top-level type only. SET uses every
// other present field of the graph; identity markers on nested types are ignored,
// so a nested identity field is an ordinary SET column.
//
// Without a present identity field the build fails with NoIdentityField, unless the
// builder allows unguarded updates, in which case the WHERE clause is omitted.
func (qb *QueryBuilder) Update(v any) (string, error) {
	meta, err := qb.Metadata(v)
	if err != nil {
		return "", err
	}

	table, err := meta.RequireTable()
	if err != nil {
		return "", err
	}

	where, err := qb.walker.CollectTopLevel(v, whereChecker)
	if err != nil {
		return "", err
	}
	if len(where) == 0 && !qb.unguarded {
		return "", dbtypes.NewError(dbtypes.KindNoIdentityField, meta.TypeName,
			"update requires at least one present identity field (`db:\",identity\"`)")
	}

	set, err := qb.walker.CollectNested(v, setChecker, dbtypes.Present)
	if err != nil {
		return "", err
	}
	if len(set) == 0 {
		return "", dbtypes.NewError(dbtypes.KindNoUpdatableField, meta.TypeName, "update has no present non-identity field to set")
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(table)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(predicates(set), setSeparator))

	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(predicates(where), andSeparator))
	}

	return sb.String(), nil
}
