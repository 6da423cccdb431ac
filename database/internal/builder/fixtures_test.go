package builder

import (
	"time"

	"github.com/digit-health/dtoquery/database/internal/entity"
	dbtypes "github.com/digit-health/dtoquery/database/types"
)

const tableT = "t"

type dummyData struct {
	_ struct{} `table:"dummyData"`

	DummyID      *int `db:",identity"`
	DummyString  *string
	DummyInt     *int
	DummyBoolean *bool
	DummyFloat   *float32
	DummyDouble  *float64

	DummyPrimitiveInt     int
	DummyPrimitiveBoolean bool
	DummyPrimitiveFloat   float32
	DummyPrimitiveDouble  float64

	DummyAddress *dummyAddress
}

type dummyAddress struct {
	AddressString *string `db:",identity"`
	DummyAmount   *dummyAmount
}

type dummyAmount struct {
	Currency *string
	Amount   *float64
}

// counterEntity has a nullable identity and two nullable scalars.
type counterEntity struct {
	_     struct{}   `table:"t"`
	ID    *int       `db:"id,identity"`
	Name  *string    `db:"name"`
	Count *int       `db:"count"`
	Seen  *time.Time `db:"seen"`
}

type lineAddr struct {
	Line1 *string `db:"line1"`
}

type lineEntity struct {
	_    struct{} `table:"t"`
	ID   *int     `db:"id,identity"`
	Name *string  `db:"name"`
	Addr *lineAddr
}

type untabled struct {
	ID   *int `db:"id,identity"`
	Name *string
}

type compositeKey struct {
	_       struct{} `table:"membership"`
	GroupID *string  `db:"group_id,identity"`
	UserID  *string  `db:"user_id,identity"`
	Role    *string  `db:"role"`
}

type oracleEntity struct {
	_     struct{} `table:"audit"`
	ID    *string  `db:"id,identity"`
	Level *string  `db:"level"`
	Size  *int     `db:"size"`
}

func ptr[T any](v T) *T {
	return &v
}

func newTestBuilder(vendor string, opts ...Option) *QueryBuilder {
	return NewQueryBuilder(vendor, append([]Option{WithRegistry(entity.NewRegistry())}, opts...)...)
}

func newGenericBuilder(opts ...Option) *QueryBuilder {
	return newTestBuilder("", opts...)
}

var _ dbtypes.Tabler = (*tabled)(nil)

type tabled struct {
	ID *string `db:"id,identity"`
}

func (*tabled) TableName() string { return "app.tabled" }
