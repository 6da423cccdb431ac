package types

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constChecker(result bool, err error, calls *int) FieldChecker {
	return func(*Field, reflect.Value) (bool, error) {
		*calls++
		return result, err
	}
}

func TestPresentAndIsIdentity(t *testing.T) {
	name := "n"
	owner := reflect.ValueOf(&fieldOwner{Name: &name})

	idField := &Field{GoName: "Name", Index: 0, Kind: FieldScalar, Identity: true}
	plain := &Field{GoName: "Amount", Index: 3, Kind: FieldScalar}

	ok, err := Present(idField, owner)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Present(plain, owner)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = IsIdentity(idField, owner)
	assert.True(t, ok)
	ok, _ = IsIdentity(plain, owner)
	assert.False(t, ok)

	ok, err = And(IsIdentity, Present)(idField, owner)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAndShortCircuits(t *testing.T) {
	var calls int

	ok, err := And(constChecker(false, nil, &calls), constChecker(true, nil, &calls))(nil, reflect.Value{})

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, calls)

	ok, err = And()(nil, reflect.Value{})
	require.NoError(t, err)
	assert.True(t, ok, "empty conjunction is true")
}

func TestOrShortCircuits(t *testing.T) {
	var calls int

	ok, err := Or(constChecker(true, nil, &calls), constChecker(false, nil, &calls))(nil, reflect.Value{})

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, calls)

	ok, err = Or()(nil, reflect.Value{})
	require.NoError(t, err)
	assert.False(t, ok, "empty disjunction is false")
}

func TestCheckerErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	var calls int

	_, err := And(constChecker(true, nil, &calls), constChecker(true, boom, &calls))(nil, reflect.Value{})
	assert.ErrorIs(t, err, boom)

	_, err = Or(constChecker(false, boom, &calls))(nil, reflect.Value{})
	assert.ErrorIs(t, err, boom)

	ok, err := Not(constChecker(true, boom, &calls))(nil, reflect.Value{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}

func TestNot(t *testing.T) {
	var calls int

	ok, err := Not(constChecker(false, nil, &calls))(nil, reflect.Value{})

	require.NoError(t, err)
	assert.True(t, ok)
}
