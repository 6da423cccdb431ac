package walker

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digit-health/dtoquery/database/internal/entity"
	dbtypes "github.com/digit-health/dtoquery/database/types"
)

type address struct {
	ID    *string `db:"addressID,identity"`
	Line1 *string `db:"line1"`
	City  *string `db:"city"`
}

type household struct {
	_ struct{} `table:"household"`

	ID      *string `db:"id,identity"`
	Name    *string
	Size    int
	Address *address
	Billing address
	Members []string
}

type node struct {
	Name   *string `db:"name"`
	Parent *node
}

func ptr[T any](v T) *T {
	return &v
}

func newWalker() *Walker {
	return New(entity.NewRegistry(), dbtypes.PostgreSQL)
}

func names(candidates []dbtypes.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Name
	}
	return out
}

func TestCollectPresentInDeclarationOrder(t *testing.T) {
	h := &household{
		ID:      ptr("h-1"),
		Name:    ptr("Kamau"),
		Size:    4,
		Address: &address{Line1: ptr("Moi Avenue")},
		Billing: address{City: ptr("Nairobi")},
		Members: []string{"a"},
	}

	got, err := newWalker().Collect(h, dbtypes.Present)
	require.NoError(t, err)

	assert.Equal(t, []dbtypes.Candidate{
		{Name: "id", Column: "id", Path: "ID"},
		{Name: "name", Column: "name", Path: "Name"},
		{Name: "line1", Column: "line1", Path: "Address.Line1"},
		{Name: "city", Column: "city", Path: "Billing.City"},
	}, got)
}

func TestCollectSkipsNilComposite(t *testing.T) {
	got, err := newWalker().Collect(household{Name: ptr("x")}, dbtypes.Present)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, names(got))
}

func TestCollectEmptyEntity(t *testing.T) {
	got, err := newWalker().Collect(&household{}, dbtypes.Present)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCollectNestedUsesSeparateChecker(t *testing.T) {
	h := &household{
		ID:      ptr("h-1"),
		Name:    ptr("Kamau"),
		Address: &address{ID: ptr("a-1"), City: ptr("Mombasa")},
	}

	root := dbtypes.And(dbtypes.Present, dbtypes.Not(dbtypes.IsIdentity))
	got, err := newWalker().CollectNested(h, root, dbtypes.Present)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "addressID", "city"}, names(got))
}

func TestCollectTopLevelDoesNotRecurse(t *testing.T) {
	h := &household{
		ID:      ptr("h-1"),
		Address: &address{ID: ptr("a-1")},
	}

	got, err := newWalker().CollectTopLevel(h, dbtypes.And(dbtypes.IsIdentity, dbtypes.Present))
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, names(got))
}

func TestCollectDoesNotMutate(t *testing.T) {
	h := &household{ID: ptr("h-1"), Address: &address{City: ptr("Kisumu")}}
	before := *h.Address

	_, err := newWalker().Collect(h, dbtypes.Present)
	require.NoError(t, err)

	assert.Equal(t, "h-1", *h.ID)
	assert.Equal(t, before, *h.Address)
}

func TestCollectInvalidEntity(t *testing.T) {
	w := newWalker()

	_, err := w.Collect((*household)(nil), dbtypes.Present)
	assert.ErrorIs(t, err, dbtypes.ErrInvalidEntity)

	_, err = w.Collect(42, dbtypes.Present)
	assert.ErrorIs(t, err, dbtypes.ErrInvalidEntity)

	_, err = w.Collect(nil, dbtypes.Present)
	assert.ErrorIs(t, err, dbtypes.ErrInvalidEntity)
}

func TestCollectCheckerErrorIsFieldAccessFailure(t *testing.T) {
	boom := errors.New("boom")
	failing := func(*dbtypes.Field, reflect.Value) (bool, error) { return false, boom }

	_, err := newWalker().Collect(&household{}, failing)
	require.Error(t, err)
	assert.ErrorIs(t, err, dbtypes.ErrFieldAccessFailure)
	assert.ErrorIs(t, err, boom)

	var qbErr *dbtypes.QueryBuilderError
	require.ErrorAs(t, err, &qbErr)
	assert.Equal(t, "household", qbErr.Entity)
	assert.Equal(t, "ID", qbErr.Field)
}

func TestCollectRecoversPanics(t *testing.T) {
	panicking := func(*dbtypes.Field, reflect.Value) (bool, error) { panic("reflect: call of Value.Elem on zero Value") }

	got, err := newWalker().Collect(&household{}, panicking)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, dbtypes.ErrFieldAccessFailure)
	assert.Contains(t, err.Error(), "panicked")
}

func TestCollectSelfReferencingValues(t *testing.T) {
	n := &node{Name: ptr("child"), Parent: &node{Name: ptr("parent")}}

	got, err := newWalker().Collect(n, dbtypes.Present)
	require.NoError(t, err)
	assert.Equal(t, []dbtypes.Candidate{
		{Name: "name", Column: "name", Path: "Name"},
		{Name: "name", Column: "name", Path: "Parent.Name"},
	}, got)
}

func TestBindingsFirstDeclarationWins(t *testing.T) {
	h := &household{
		ID:      ptr("h-1"),
		Billing: address{Line1: ptr("PO Box 1")},
	}

	bindings, err := newWalker().Bindings(h)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"id", "name", "addressID", "line1", "city"}, keys(bindings))

	id := bindings["id"]
	assert.Equal(t, "ID", id.Path)
	assert.Equal(t, "h-1", id.Value.Elem().String())

	// Address is nil, so its line1 wins with no value
	line1 := bindings["line1"]
	assert.Equal(t, "Address.Line1", line1.Path)
	assert.False(t, line1.Value.IsValid())
}

func TestBindingsSelfReferencingType(t *testing.T) {
	bindings, err := newWalker().Bindings(&node{Name: ptr("n")})
	require.NoError(t, err)

	require.Len(t, bindings, 1)
	assert.Equal(t, "Name", bindings["name"].Path)
}

func keys(m map[string]Binding) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
