package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindlab/metastore/pkg/types"
)

func TestEntityDefAttributesKeepDisplayOrder(t *testing.T) {
	store := newTestStore(t)
	repo := NewEntityDefRepo(store)
	ctx := context.Background()

	title := addAttrDef(t, store, "title", types.ValueTypeText, "")
	pages := addAttrDef(t, store, "pages", types.ValueTypeInteger, "0")
	inPrint := addAttrDef(t, store, "in print", types.ValueTypeBoolean, "true")

	def := types.EntityDef{
		ID:               store.NewID(),
		Name:             "Book",
		Attributes:       []types.AttributeDef{title, pages, inPrint},
		ListingAttrDefID: title.ID,
	}
	require.NoError(t, repo.Add(ctx, &def))

	got, err := repo.Get(ctx, def.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Attributes, 3)
	// Membership order, not alphabetical.
	assert.Equal(t, "title", got.Attributes[0].Name)
	assert.Equal(t, "pages", got.Attributes[1].Name)
	assert.Equal(t, "in print", got.Attributes[2].Name)
}

func TestEntityDefUpdateReordersAttributes(t *testing.T) {
	store := newTestStore(t)
	repo := NewEntityDefRepo(store)
	ctx := context.Background()

	a := addAttrDef(t, store, "a", types.ValueTypeText, "")
	b := addAttrDef(t, store, "b", types.ValueTypeText, "")
	c := addAttrDef(t, store, "c", types.ValueTypeText, "")

	def := types.EntityDef{
		ID:         store.NewID(),
		Name:       "Thing",
		Attributes: []types.AttributeDef{a, b, c},
	}
	require.NoError(t, repo.Add(ctx, &def))

	// Reverse the order and drop the middle attribute.
	def.Attributes = []types.AttributeDef{c, a}
	require.NoError(t, repo.Update(ctx, &def))

	got, err := repo.Get(ctx, def.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Attributes, 2)
	assert.Equal(t, c.ID, got.Attributes[0].ID)
	assert.Equal(t, a.ID, got.Attributes[1].ID)
}

func TestEntityDefListRefsByAttrDefID(t *testing.T) {
	store := newTestStore(t)
	repo := NewEntityDefRepo(store)
	ctx := context.Background()

	shared := addAttrDef(t, store, "name", types.ValueTypeText, "")
	other := addAttrDef(t, store, "other", types.ValueTypeText, "")

	book := types.EntityDef{ID: store.NewID(), Name: "Book", Attributes: []types.AttributeDef{shared}}
	author := types.EntityDef{ID: store.NewID(), Name: "Author", Attributes: []types.AttributeDef{shared, other}}
	require.NoError(t, repo.Add(ctx, &book))
	require.NoError(t, repo.Add(ctx, &author))

	refs, err := repo.ListRefsByAttrDefID(ctx, shared.ID)
	require.NoError(t, err)
	require.Len(t, refs, 2)

	refs, err = repo.ListRefsByAttrDefID(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Author", refs[0].Name)
}

func TestEntityDefRemoveBlockedByEntities(t *testing.T) {
	store := newTestStore(t)
	defRepo := NewEntityDefRepo(store)
	entRepo := NewEntityRepo(store)
	ctx := context.Background()

	title := addAttrDef(t, store, "title", types.ValueTypeText, "")
	def := types.EntityDef{
		ID:               store.NewID(),
		Name:             "Book",
		Attributes:       []types.AttributeDef{title},
		ListingAttrDefID: title.ID,
	}
	require.NoError(t, defRepo.Add(ctx, &def))

	ent := types.Entity{
		ID:               store.NewID(),
		DefID:            def.ID,
		ListingAttrDefID: title.ID,
		ListingAttrName:  title.Name,
	}
	require.NoError(t, entRepo.Add(ctx, &ent))

	err := defRepo.Remove(ctx, def.ID)
	assert.ErrorIs(t, err, types.ErrDependenciesExist)

	require.NoError(t, entRepo.Remove(ctx, ent.ID))
	require.NoError(t, defRepo.Remove(ctx, def.ID))
}
