package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultName(t *testing.T) {
	tests := []struct {
		goName string
		want   string
	}{
		{"DummyString", "dummyString"},
		{"DummyID", "dummyID"},
		{"ID", "id"},
		{"URLPath", "urlPath"},
		{"A", "a"},
		{"already", "already"},
		{"HTTPStatus2", "httpStatus2"},
	}

	for _, tt := range tests {
		t.Run(tt.goName, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultName(tt.goName))
		})
	}
}
