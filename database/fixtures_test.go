package database

import (
	"bytes"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/digit-health/dtoquery/observability/obstest"
)

type household struct {
	_        struct{} `table:"household"`
	ID       *string  `db:"id,identity"`
	Name     *string  `db:"name"`
	Password *string  `db:"password"`
	Address  *householdAddress
}

type householdAddress struct {
	Locality *string `db:"locality"`
}

// membershipStatus implements driver.Valuer on its pointer only.
type membershipStatus struct {
	code string
}

func (s *membershipStatus) Value() (driver.Value, error) {
	if s.code == "" {
		return nil, nil
	}
	return s.code, nil
}

type membership struct {
	_      struct{}         `table:"membership"`
	ID     *string          `db:"id,identity"`
	Status membershipStatus `db:"status"`
}

type unbound struct {
	ID *string `db:"id,identity"`
}

func ptr[T any](v T) *T {
	return &v
}

func newMock(t *testing.T) (Querier, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		mock.ExpectClose()
		_ = db.Close()
	})
	return db, mock
}

func telemetryOptions(tel *obstest.Telemetry) []TemplateOption {
	return []TemplateOption{WithTracerProvider(tel.TracerProvider), WithMeterProvider(tel.MeterProvider)}
}

func logLines(buf *bytes.Buffer) []string {
	var lines []string
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) > 0 {
			lines = append(lines, string(line))
		}
	}
	return lines
}
