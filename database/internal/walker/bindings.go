package walker

import (
	"reflect"

	"github.com/digit-health/dtoquery/database/internal/entity"
	dbtypes "github.com/digit-health/dtoquery/database/types"
)

// Binding is a scalar field reachable from the root entity, with its current value.
type Binding struct {
	Name string
	Path string

	// Value is invalid when a composite on the path is nil
	Value reflect.Value
}

// Bindings lists every scalar field of v's type graph in walk order, whether
// present or not. When a name occurs more than once the first declaration wins.
// Fields below a nil composite are reported with an invalid Value.
func (w *Walker) Bindings(v any) (out map[string]Binding, err error) {
	defer recoverAccess(&err)

	rv, meta, err := w.resolve(v)
	if err != nil {
		return nil, err
	}

	out = make(map[string]Binding, len(meta.Fields))
	if err := w.bind(rv, meta, "", map[reflect.Type]bool{meta.Type: true}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (w *Walker) bind(owner reflect.Value, meta *entity.Metadata, prefix string, active map[reflect.Type]bool, out map[string]Binding) error {
	for i := range meta.Fields {
		f := &meta.Fields[i]
		path := joinPath(prefix, f.GoName)

		switch f.Kind {
		case dbtypes.FieldScalar:
			if _, seen := out[f.Name]; seen {
				continue
			}
			b := Binding{Name: f.Name, Path: path}
			if owner.IsValid() {
				val, err := f.Value(owner)
				if err != nil {
					return accessError(meta, f, err)
				}
				b.Value = val
			}
			out[f.Name] = b

		case dbtypes.FieldComposite:
			childType := f.Type
			for childType.Kind() == reflect.Pointer {
				childType = childType.Elem()
			}
			// Self-referencing types: the type graph may be cyclic even when values are not
			if active[childType] {
				continue
			}

			var child reflect.Value
			if owner.IsValid() {
				val, err := f.Value(owner)
				if err != nil {
					return accessError(meta, f, err)
				}
				for val.Kind() == reflect.Pointer && !val.IsNil() {
					val = val.Elem()
				}
				if val.Kind() == reflect.Struct {
					child = val
				}
			}

			childMeta, err := w.registry.Get(w.vendor, childType)
			if err != nil {
				return err
			}

			active[childType] = true
			err = w.bind(child, childMeta, path, active, out)
			delete(active, childType)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
