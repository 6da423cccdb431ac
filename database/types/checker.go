//revive:disable-next-line:var-naming // Package name "types" avoids circular imports.
package types

import "reflect"

// FieldChecker decides whether a field of owner is emitted into a query.
// Checkers must not modify owner.
type FieldChecker func(field *Field, owner reflect.Value) (bool, error)

// Present is true when the field's current value is non-null.
var Present FieldChecker = func(field *Field, owner reflect.Value) (bool, error) {
	return field.IsPresent(owner)
}

// IsIdentity is true when the field carries the identity marker.
var IsIdentity FieldChecker = func(field *Field, _ reflect.Value) (bool, error) {
	return field.Identity, nil
}

// And combines checkers with logical conjunction, short-circuiting on the first false.
func And(checkers ...FieldChecker) FieldChecker {
	return func(field *Field, owner reflect.Value) (bool, error) {
		for _, c := range checkers {
			ok, err := c(field, owner)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// Or combines checkers with logical disjunction, short-circuiting on the first true.
func Or(checkers ...FieldChecker) FieldChecker {
	return func(field *Field, owner reflect.Value) (bool, error) {
		for _, c := range checkers {
			ok, err := c(field, owner)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
}

// Not negates a checker. Errors are passed through unchanged.
func Not(checker FieldChecker) FieldChecker {
	return func(field *Field, owner reflect.Value) (bool, error) {
		ok, err := checker(field, owner)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
}
