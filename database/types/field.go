//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// FieldKind is the static classification of an entity field.
type FieldKind int

const (
	// FieldPrimitive is a fixed-size numeric or boolean value that can never signal "unset".
	FieldPrimitive FieldKind = iota
	// FieldScalar is a nullable scalar bound as a single placeholder.
	FieldScalar
	// FieldComposite is a nested struct whose own fields are flattened into the parent.
	FieldComposite
	// FieldCollection is a slice, array, map, or other unsupported container.
	FieldCollection
)

func (k FieldKind) String() string {
	switch k {
	case FieldPrimitive:
		return "primitive"
	case FieldScalar:
		return "scalar"
	case FieldComposite:
		return "composite"
	case FieldCollection:
		return "collection"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

var (
	valuerType = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	timeType   = reflect.TypeOf(time.Time{})
	uuidType   = reflect.TypeOf(uuid.UUID{})
)

// Field describes one struct field of an entity.
type Field struct {
	// GoName is the Go struct field name (e.g., "DummyID")
	GoName string

	// Name is the placeholder name used in `:name` (e.g., "dummyID")
	Name string

	// Column is the vendor-quoted column name written on the left side of `column=:name`
	Column string

	// Index is the position of the field in its struct
	Index int

	// Type is the declared reflect.Type of the field
	Type reflect.Type

	// Kind is the static classification of Type
	Kind FieldKind

	// Identity marks the field as a WHERE/identity field (`db:",identity"`)
	Identity bool
}

// Value reads the field's current value from owner, which must be the struct
// (or a non-nil pointer to the struct) that declares the field.
func (f *Field) Value(owner reflect.Value) (reflect.Value, error) {
	for owner.Kind() == reflect.Pointer {
		if owner.IsNil() {
			return reflect.Value{}, fmt.Errorf("field %s: owner is a nil pointer", f.GoName)
		}
		owner = owner.Elem()
	}

	if owner.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("field %s: owner is %s, not a struct", f.GoName, owner.Kind())
	}

	if f.Index < 0 || f.Index >= owner.NumField() {
		return reflect.Value{}, fmt.Errorf("field %s: index %d out of range for %s", f.GoName, f.Index, owner.Type())
	}

	return owner.Field(f.Index), nil
}

// IsPresent reports whether the field's current value is non-null.
// Primitive and collection fields are never present.
func (f *Field) IsPresent(owner reflect.Value) (bool, error) {
	if f.Kind == FieldPrimitive || f.Kind == FieldCollection {
		return false, nil
	}

	v, err := f.Value(owner)
	if err != nil {
		return false, err
	}

	return IsPresentValue(v)
}

// IsPresentValue reports whether v holds a non-null value under the nullability
// rules for entity fields. A non-nil pointer is present whatever it points at,
// unless it is a driver.Valuer yielding nil. Value-typed fields are absent when
// they are empty strings, zero times, uuid.Nil or driver.Valuers yielding nil.
func IsPresentValue(v reflect.Value) (bool, error) {
	if !v.IsValid() {
		return false, nil
	}

	if v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return false, nil
		}
		if v.Type().Implements(valuerType) {
			return valuerPresent(v)
		}
		elem := v.Elem()
		if elem.Kind() == reflect.Pointer || elem.Kind() == reflect.Interface || implementsValuer(elem.Type()) {
			return IsPresentValue(elem)
		}
		return true, nil
	}

	switch v.Type() {
	case timeType:
		return !v.Interface().(time.Time).IsZero(), nil
	case uuidType:
		return v.Interface().(uuid.UUID) != uuid.Nil, nil
	}

	if v.Type().Implements(valuerType) {
		return valuerPresent(v)
	}
	if reflect.PointerTo(v.Type()).Implements(valuerType) {
		return valuerPresent(addressable(v))
	}

	switch v.Kind() {
	case reflect.String:
		return v.Len() > 0, nil
	case reflect.Struct:
		return true, nil
	case reflect.Slice, reflect.Map:
		return !v.IsNil(), nil
	default:
		return true, nil
	}
}

func implementsValuer(t reflect.Type) bool {
	return t.Implements(valuerType) || reflect.PointerTo(t).Implements(valuerType)
}

func valuerPresent(v reflect.Value) (bool, error) {
	if !v.CanInterface() {
		return false, fmt.Errorf("value of type %s cannot be read", v.Type())
	}

	val, err := v.Interface().(driver.Valuer).Value()
	if err != nil {
		return false, err
	}
	return val != nil, nil
}

// addressable returns a pointer to v, copying it when v is not addressable.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v.Addr()
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p
}

// Classify returns the FieldKind for a declared field type.
func Classify(t reflect.Type) FieldKind {
	if isScalarType(t) {
		return FieldScalar
	}

	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return FieldPrimitive
	case reflect.Struct:
		return FieldComposite
	case reflect.Pointer:
		elem := t.Elem()
		switch {
		case isScalarType(elem):
			return FieldScalar
		case elem.Kind() == reflect.Struct:
			return FieldComposite
		case elem.Kind() == reflect.Pointer:
			return Classify(elem)
		case isContainerKind(elem.Kind()):
			return FieldCollection
		default:
			// *int, *bool, ... are the nullable forms of primitives
			return FieldScalar
		}
	default:
		return FieldCollection
	}
}

// isScalarType matches the types bound as one placeholder regardless of their kind.
func isScalarType(t reflect.Type) bool {
	if t == timeType || t == uuidType {
		return true
	}
	if implementsValuer(t) {
		return true
	}
	return t.Kind() == reflect.String
}

func isContainerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return true
	default:
		return false
	}
}

// BindValue converts a field value into a driver argument: nil pointers bind
// as nil, driver.Valuers are passed through, other pointers are dereferenced.
// A value whose Value method has a pointer receiver is passed as a pointer to a copy.
func BindValue(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	if !v.CanInterface() {
		return nil, fmt.Errorf("value of type %s cannot be read", v.Type())
	}

	if v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		if v.Type().Implements(valuerType) {
			return v.Interface(), nil
		}
		return BindValue(v.Elem())
	}

	if !v.Type().Implements(valuerType) && reflect.PointerTo(v.Type()).Implements(valuerType) {
		return addressable(v).Interface(), nil
	}
	return v.Interface(), nil
}
