package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindlab/metastore/pkg/types"
)

func strptr(s string) *string { return &s }

// addAttrDef is a test helper that inserts an attribute definition and
// returns it with its generated id.
func addAttrDef(t *testing.T, store *Store, name string, vt types.AttributeValueType, defaultValue string) types.AttributeDef {
	t.Helper()
	repo := NewAttributeDefRepo(store)
	def := types.AttributeDef{
		ID:           store.NewID(),
		Name:         name,
		Description:  strptr(name + " description"),
		ValueType:    vt,
		DefaultValue: defaultValue,
	}
	require.NoError(t, repo.Add(context.Background(), &def))
	return def
}

func TestAttributeDefCRUD(t *testing.T) {
	store := newTestStore(t)
	repo := NewAttributeDefRepo(store)
	ctx := context.Background()

	def := addAttrDef(t, store, "title", types.ValueTypeText, "Untitled")

	got, err := repo.Get(ctx, def.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "title", got.Name)
	assert.Equal(t, types.ValueTypeText, got.ValueType)
	assert.Equal(t, "Untitled", got.DefaultValue)

	got.Name = "full title"
	got.IsRequired = true
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.Get(ctx, def.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "full title", got.Name)
	assert.True(t, got.IsRequired)

	require.NoError(t, repo.Remove(ctx, def.ID))
	got, err = repo.Get(ctx, def.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAttributeDefGetMissingIsNil(t *testing.T) {
	store := newTestStore(t)
	repo := NewAttributeDefRepo(store)

	got, err := repo.Get(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAttributeDefNameDescriptionUnique(t *testing.T) {
	store := newTestStore(t)
	repo := NewAttributeDefRepo(store)
	ctx := context.Background()

	first := types.AttributeDef{
		ID:          store.NewID(),
		Name:        "title",
		Description: strptr("display title"),
		ValueType:   types.ValueTypeText,
	}
	require.NoError(t, repo.Add(ctx, &first))

	dup := first
	dup.ID = store.NewID()
	err := repo.Add(ctx, &dup)
	assert.ErrorIs(t, err, types.ErrNameDescriptionNotUnique)

	// Same name with a different description is allowed.
	other := first
	other.ID = store.NewID()
	other.Description = strptr("another title")
	require.NoError(t, repo.Add(ctx, &other))

	// Updating into a collision is rejected too.
	other.Description = first.Description
	err = repo.Update(ctx, &other)
	assert.ErrorIs(t, err, types.ErrNameDescriptionNotUnique)
}

func TestAttributeDefListOrderAndPagination(t *testing.T) {
	store := newTestStore(t)
	repo := NewAttributeDefRepo(store)
	ctx := context.Background()

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		addAttrDef(t, store, name, types.ValueTypeText, "")
	}

	defs, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, "bravo", defs[1].Name)
	assert.Equal(t, "charlie", defs[2].Name)

	page, err := repo.List(ctx, &types.Pagination{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "charlie", page[0].Name)
}

func TestAttributeDefRemoveBlockedByMembership(t *testing.T) {
	store := newTestStore(t)
	attrRepo := NewAttributeDefRepo(store)
	entDefRepo := NewEntityDefRepo(store)
	ctx := context.Background()

	attr := addAttrDef(t, store, "title", types.ValueTypeText, "")
	entDef := types.EntityDef{
		ID:         store.NewID(),
		Name:       "Book",
		Attributes: []types.AttributeDef{attr},
	}
	require.NoError(t, entDefRepo.Add(ctx, &entDef))

	err := attrRepo.Remove(ctx, attr.ID)
	assert.ErrorIs(t, err, types.ErrDependenciesExist)

	// Detaching the definition unblocks the delete.
	entDef.Attributes = nil
	require.NoError(t, entDefRepo.Update(ctx, &entDef))
	require.NoError(t, attrRepo.Remove(ctx, attr.ID))
}
