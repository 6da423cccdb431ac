package builder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/digit-health/dtoquery/database/internal/sqllex"
	"github.com/digit-health/dtoquery/database/internal/walker"
	dbtypes "github.com/digit-health/dtoquery/database/types"
	"github.com/digit-health/dtoquery/internal/reflection"
)

// Bind resolves the `:name` placeholders of query against the fields of v and
// rewrites them into the vendor's positional form ($1 for PostgreSQL, :1 for Oracle,
// ? otherwise). It returns the rewritten statement and the arguments in order.
//
// Every placeholder must match a scalar field somewhere in v's graph; the first
// declaration wins when nested types reuse a name. Fields below a nil nested
// struct, and nil pointers, bind as nil.
func (qb *QueryBuilder) Bind(query string, v any) (string, []any, error) {
	bindings, err := qb.walker.Bindings(v)
	if err != nil {
		return "", nil, err
	}

	format := PlaceholderFormat(qb.vendor)
	escapeQuestion := format != squirrel.Question

	var (
		sb   strings.Builder
		args []any
	)

	for _, seg := range sqllex.SplitNamed(query) {
		if !seg.Param {
			text := seg.Text
			if escapeQuestion {
				// squirrel treats "??" as a literal question mark
				text = strings.ReplaceAll(text, "?", "??")
			}
			sb.WriteString(text)
			continue
		}

		b, ok := bindings[seg.Text]
		if !ok {
			return "", nil, dbtypes.NewError(dbtypes.KindMissingParameter, qb.entityName(v),
				fmt.Sprintf("no field for placeholder :%s (available: %s)", seg.Text, availableNames(bindings)))
		}

		arg, err := dbtypes.BindValue(b.Value)
		if err != nil {
			return "", nil, dbtypes.NewFieldError(dbtypes.KindFieldAccessFailure, qb.entityName(v), b.Path, "cannot bind field value", err)
		}

		sb.WriteString("?")
		args = append(args, arg)
	}

	positional, err := format.ReplacePlaceholders(sb.String())
	if err != nil {
		return "", nil, fmt.Errorf("failed to rewrite placeholders: %w", err)
	}
	return positional, args, nil
}

func (qb *QueryBuilder) entityName(v any) string {
	return reflection.EntityName(v)
}

func availableNames(bindings map[string]walker.Binding) string {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
