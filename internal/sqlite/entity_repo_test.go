package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindlab/metastore/pkg/types"
)

// bookFixture creates a Book definition with one attribute of each supported
// value type and one entity instance seeded from the defaults.
type bookFixture struct {
	title   types.AttributeDef
	rating  types.AttributeDef
	pages   types.AttributeDef
	inPrint types.AttributeDef
	def     types.EntityDef
	ent     types.Entity
}

func newBookFixture(t *testing.T, store *Store) *bookFixture {
	t.Helper()
	ctx := context.Background()
	f := &bookFixture{
		title:   addAttrDef(t, store, "title", types.ValueTypeText, "Untitled"),
		rating:  addAttrDef(t, store, "rating", types.ValueTypeSmallInteger, "3"),
		pages:   addAttrDef(t, store, "pages", types.ValueTypeInteger, "0"),
		inPrint: addAttrDef(t, store, "in print", types.ValueTypeBoolean, "true"),
	}

	f.def = types.EntityDef{
		ID:               store.NewID(),
		Name:             "Book",
		Attributes:       []types.AttributeDef{f.title, f.rating, f.pages, f.inPrint},
		ListingAttrDefID: f.title.ID,
	}
	require.NoError(t, NewEntityDefRepo(store).Add(ctx, &f.def))

	titleAttr := types.NewTextAttributeFromDef(f.title)
	titleAttr.Value = "Dune"
	f.ent = types.Entity{
		ID:                 store.NewID(),
		DefID:              f.def.ID,
		TextAttributes:     []types.TextAttribute{titleAttr},
		SmallintAttributes: []types.SmallintAttribute{types.NewSmallintAttributeFromDef(f.rating)},
		IntAttributes:      []types.IntegerAttribute{types.NewIntegerAttributeFromDef(f.pages)},
		BooleanAttributes:  []types.BooleanAttribute{types.NewBooleanAttributeFromDef(f.inPrint)},
		ListingAttrDefID:   f.title.ID,
		ListingAttrName:    f.title.Name,
		ListingAttrValue:   "Dune",
	}
	require.NoError(t, NewEntityRepo(store).Add(ctx, &f.ent))
	return f
}

func TestEntityGetAssemblesAttributesInDisplayOrder(t *testing.T) {
	store := newTestStore(t)
	f := newBookFixture(t, store)
	repo := NewEntityRepo(store)

	got, err := repo.Get(context.Background(), f.ent.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Book", got.Kind)
	assert.Equal(t, f.def.ID, got.DefID)

	require.Len(t, got.TextAttributes, 1)
	assert.Equal(t, "Dune", got.TextAttributes[0].Value)
	assert.Equal(t, "title", got.TextAttributes[0].Name)
	assert.Equal(t, f.ent.ID, got.TextAttributes[0].OwnerID)

	require.Len(t, got.SmallintAttributes, 1)
	assert.Equal(t, int16(3), got.SmallintAttributes[0].Value)

	require.Len(t, got.IntAttributes, 1)
	assert.Equal(t, int32(0), got.IntAttributes[0].Value)

	require.Len(t, got.BooleanAttributes, 1)
	assert.True(t, got.BooleanAttributes[0].Value)

	// Display order follows the definition's membership positions, crossing
	// the typed collections.
	require.Len(t, got.AttributesOrder, 4)
	assert.Equal(t, types.ValueTypeText, got.AttributesOrder[0].ValueType)
	assert.Equal(t, types.ValueTypeSmallInteger, got.AttributesOrder[1].ValueType)
	assert.Equal(t, types.ValueTypeInteger, got.AttributesOrder[2].ValueType)
	assert.Equal(t, types.ValueTypeBoolean, got.AttributesOrder[3].ValueType)
}

func TestEntityGetMissingIsNil(t *testing.T) {
	store := newTestStore(t)
	got, err := NewEntityRepo(store).Get(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEntityUpdateRefreshesListingValue(t *testing.T) {
	store := newTestStore(t)
	f := newBookFixture(t, store)
	repo := NewEntityRepo(store)
	ctx := context.Background()

	got, err := repo.Get(ctx, f.ent.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	got.TextAttributes[0].Value = "Dune Messiah"
	got.IntAttributes[0].Value = 412
	require.NoError(t, repo.Update(ctx, got))

	after, err := repo.Get(ctx, f.ent.ID)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, "Dune Messiah", after.TextAttributes[0].Value)
	assert.Equal(t, int32(412), after.IntAttributes[0].Value)
	// The title is the listing attribute, so the cache follows it.
	assert.Equal(t, "Dune Messiah", after.ListingAttrValue)
	assert.Equal(t, "title", after.ListingAttrName)
}

func TestEntityListShowsListingCacheOnly(t *testing.T) {
	store := newTestStore(t)
	f := newBookFixture(t, store)
	repo := NewEntityRepo(store)

	ents, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, ents, 1)
	assert.Equal(t, "Book", ents[0].Kind)
	assert.Equal(t, "Dune", ents[0].ListingAttrValue)
	assert.Empty(t, ents[0].TextAttributes)

	byDef, err := repo.ListByDefID(context.Background(), f.def.ID, nil)
	require.NoError(t, err)
	require.Len(t, byDef, 1)
	assert.Equal(t, ents[0].ID, byDef[0].ID)
}

func TestEntityListingCacheBulkRepair(t *testing.T) {
	store := newTestStore(t)
	f := newBookFixture(t, store)
	repo := NewEntityRepo(store)
	ctx := context.Background()

	// Switch the definition's listing attribute from title to pages and
	// repair every Book's cache.
	err := repo.UpdateListingAttrNameValueByEntDefID(ctx, f.def.ID, f.pages.ID, f.pages.Name)
	require.NoError(t, err)

	got, err := repo.Get(ctx, f.ent.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, f.pages.ID, got.ListingAttrDefID)
	assert.Equal(t, "pages", got.ListingAttrName)
	assert.Equal(t, "0", got.ListingAttrValue)
}

func TestEntityListingNameFollowsAttrDefRename(t *testing.T) {
	store := newTestStore(t)
	f := newBookFixture(t, store)
	repo := NewEntityRepo(store)
	ctx := context.Background()

	err := repo.UpdateListingAttrNameByAttrDefID(ctx, f.title.ID, "full title")
	require.NoError(t, err)

	got, err := repo.Get(ctx, f.ent.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "full title", got.ListingAttrName)
	// The cached value is untouched by a rename.
	assert.Equal(t, "Dune", got.ListingAttrValue)
}

func TestEntityAddRollsBackOnBadDefID(t *testing.T) {
	store := newTestStore(t)
	f := newBookFixture(t, store)
	repo := NewEntityRepo(store)
	ctx := context.Background()

	bad := types.Entity{
		ID:             store.NewID(),
		DefID:          "no-such-def",
		TextAttributes: []types.TextAttribute{{DefID: f.title.ID, Name: "title", Value: "orphan"}},
	}
	err := repo.Add(ctx, &bad)
	require.Error(t, err)

	// Nothing of the failed add may survive, entity row or attribute rows.
	var n int
	require.NoError(t, store.db.Get(&n, "SELECT COUNT(*) FROM entities WHERE id = ?", bad.ID))
	assert.Zero(t, n)
	require.NoError(t, store.db.Get(&n, "SELECT COUNT(*) FROM text_attributes WHERE owner_id = ?", bad.ID))
	assert.Zero(t, n)
}

func TestEntityRemoveDeletesAttributeInstances(t *testing.T) {
	store := newTestStore(t)
	f := newBookFixture(t, store)
	repo := NewEntityRepo(store)
	ctx := context.Background()

	require.NoError(t, repo.Remove(ctx, f.ent.ID))

	got, err := repo.Get(ctx, f.ent.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, table := range []string{
		"text_attributes", "smallint_attributes", "integer_attributes", "boolean_attributes",
	} {
		var n int
		require.NoError(t, store.db.Get(&n,
			"SELECT COUNT(*) FROM "+table+" WHERE owner_id = ?", f.ent.ID))
		assert.Zero(t, n, "%s rows must not survive their owner", table)
	}
}
