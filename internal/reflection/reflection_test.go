package reflection

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleType struct{}

func TestIndirect(t *testing.T) {
	st := reflect.TypeOf(sampleType{})
	pp := reflect.TypeOf((**sampleType)(nil))

	assert.Equal(t, st, Indirect(pp))
	assert.Equal(t, st, Indirect(st))
	assert.Nil(t, Indirect(nil))
}

func TestTypeOf(t *testing.T) {
	st := reflect.TypeOf(sampleType{})

	assert.Equal(t, st, TypeOf(sampleType{}))
	assert.Equal(t, st, TypeOf(&sampleType{}))
	assert.Equal(t, st, TypeOf((*sampleType)(nil)))
	assert.Equal(t, st, TypeOf(reflect.TypeOf(&sampleType{})))
	assert.Nil(t, TypeOf(nil))
}

func TestGetTypeName(t *testing.T) {
	st := reflect.TypeOf(sampleType{})

	assert.Equal(t, st.PkgPath()+".sampleType", GetTypeName(st))
	assert.Equal(t, st.PkgPath()+".sampleType", GetTypeName(reflect.TypeOf(&sampleType{})))
	assert.Equal(t, "int", GetTypeName(reflect.TypeOf(0)))
	assert.Equal(t, "", GetTypeName(nil))
}

func TestGetTypeNameShort(t *testing.T) {
	assert.Equal(t, "sampleType", GetTypeNameShort(reflect.TypeOf(&sampleType{})))
	assert.Equal(t, "struct { A int }", GetTypeNameShort(reflect.TypeOf(struct{ A int }{})))
	assert.Equal(t, "", GetTypeNameShort(nil))
}

func TestEntityName(t *testing.T) {
	assert.Equal(t, "sampleType", EntityName(&sampleType{}))
	assert.Equal(t, "", EntityName(nil))
}
