// Package walker implements the order-preserving field walk over entity graphs.
// A walk visits the declared fields of a struct in declaration order, skips
// primitives and collections, emits scalars accepted by a checker, and splices
// the fields of non-nil nested structs in place of the composite field.
package walker

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/digit-health/dtoquery/database/internal/entity"
	dbtypes "github.com/digit-health/dtoquery/database/types"
)

// Walker walks entity graphs using metadata from a registry.
// It holds no mutable state and is safe for concurrent use.
type Walker struct {
	registry *entity.Registry
	vendor   string
}

// New creates a walker reading metadata for vendor from registry.
func New(registry *entity.Registry, vendor string) *Walker {
	if registry == nil {
		registry = entity.Default()
	}
	return &Walker{registry: registry, vendor: vendor}
}

// Collect walks the full graph of v, using checker at every level.
func (w *Walker) Collect(v any, checker dbtypes.FieldChecker) ([]dbtypes.Candidate, error) {
	return w.CollectNested(v, checker, checker)
}

// CollectNested walks the full graph of v, using root for the top-level fields
// and nested for every field below a composite.
func (w *Walker) CollectNested(v any, root, nested dbtypes.FieldChecker) (out []dbtypes.Candidate, err error) {
	defer recoverAccess(&err)

	rv, meta, err := w.resolve(v)
	if err != nil {
		return nil, err
	}
	return w.walk(rv, meta, "", root, nested, true, nil)
}

// CollectTopLevel visits only the top-level fields of v; composites are not entered.
func (w *Walker) CollectTopLevel(v any, checker dbtypes.FieldChecker) (out []dbtypes.Candidate, err error) {
	defer recoverAccess(&err)

	rv, meta, err := w.resolve(v)
	if err != nil {
		return nil, err
	}
	return w.walk(rv, meta, "", checker, checker, false, nil)
}

func (w *Walker) walk(
	owner reflect.Value,
	meta *entity.Metadata,
	prefix string,
	checker, nested dbtypes.FieldChecker,
	recurse bool,
	out []dbtypes.Candidate,
) ([]dbtypes.Candidate, error) {
	for i := range meta.Fields {
		f := &meta.Fields[i]
		path := joinPath(prefix, f.GoName)

		switch f.Kind {
		case dbtypes.FieldScalar:
			ok, err := checker(f, owner)
			if err != nil {
				return nil, accessError(meta, f, err)
			}
			if ok {
				out = append(out, dbtypes.Candidate{Name: f.Name, Column: f.Column, Path: path})
			}

		case dbtypes.FieldComposite:
			if !recurse {
				continue
			}

			child, err := f.Value(owner)
			if err != nil {
				return nil, accessError(meta, f, err)
			}
			child, ok := indirect(child)
			if !ok {
				continue
			}

			childMeta, err := w.registry.Get(w.vendor, child.Type())
			if err != nil {
				return nil, err
			}

			out, err = w.walk(child, childMeta, path, nested, nested, true, out)
			if err != nil {
				return nil, err
			}

		default:
			// Primitives can never signal "unset"; collections are unsupported
			continue
		}
	}

	return out, nil
}

// resolve dereferences v down to its struct value and loads its metadata.
func (w *Walker) resolve(v any) (reflect.Value, *entity.Metadata, error) {
	meta, err := w.registry.Of(w.vendor, v)
	if err != nil {
		return reflect.Value{}, nil, err
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, nil, dbtypes.NewError(dbtypes.KindInvalidEntity, meta.TypeName, "entity is a nil pointer")
		}
		rv = rv.Elem()
	}

	return rv, meta, nil
}

// indirect follows pointers down to a struct value; false means a nil pointer on the way.
func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, true
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// accessError wraps a field read failure as FieldAccessFailure unless it already
// carries a query builder kind.
func accessError(meta *entity.Metadata, f *dbtypes.Field, err error) error {
	var qbErr *dbtypes.QueryBuilderError
	if errors.As(err, &qbErr) {
		return err
	}
	return dbtypes.NewFieldError(dbtypes.KindFieldAccessFailure, meta.TypeName, f.GoName, "cannot read field value", err)
}

// recoverAccess converts a reflection panic into a FieldAccessFailure so callers
// always get an error instead of a crash.
func recoverAccess(err *error) {
	if r := recover(); r != nil {
		*err = dbtypes.NewFieldError(dbtypes.KindFieldAccessFailure, "", "", "reflective access panicked", fmt.Errorf("%v", r))
	}
}
