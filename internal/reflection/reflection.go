// Package reflection provides type naming helpers shared by the metadata parser
// and diagnostics.
package reflection

import (
	"reflect"
)

// Indirect strips every pointer level from t.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// TypeOf returns the struct type behind v, which may be a value, a pointer
// (nil pointers included) or a reflect.Type. It returns nil for a nil v.
func TypeOf(v any) reflect.Type {
	if v == nil {
		return nil
	}
	if t, ok := v.(reflect.Type); ok {
		return Indirect(t)
	}
	return Indirect(reflect.TypeOf(v))
}

// GetTypeName returns the fully qualified type name
func GetTypeName(t reflect.Type) string {
	t = Indirect(t)
	if t == nil {
		return ""
	}

	if t.PkgPath() == "" {
		return GetTypeNameShort(t)
	}

	return t.PkgPath() + "." + t.Name()
}

// GetTypeNameShort returns just the type name without package path.
// Unnamed types fall back to their literal form (struct { ... }).
func GetTypeNameShort(t reflect.Type) string {
	t = Indirect(t)
	if t == nil {
		return ""
	}

	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

// EntityName returns the short type name of v for errors and log fields.
func EntityName(v any) string {
	return GetTypeNameShort(TypeOf(v))
}
