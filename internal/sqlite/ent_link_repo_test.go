package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindlab/metastore/pkg/types"
)

// linkFixture wires two Book-like entities together through an "authored by"
// link carrying one text attribute.
type linkFixture struct {
	book    *bookFixture
	role    types.AttributeDef
	linkDef types.EntityLinkDef
	other   types.Entity
	link    types.EntityLink
}

func newLinkFixture(t *testing.T, store *Store) *linkFixture {
	t.Helper()
	ctx := context.Background()
	f := &linkFixture{
		book: newBookFixture(t, store),
		role: addAttrDef(t, store, "role", types.ValueTypeText, "author"),
	}

	f.linkDef = types.EntityLinkDef{
		ID:                store.NewID(),
		Name:              "related to",
		Cardinality:       types.ManyToMany,
		SourceEntityDefID: f.book.def.ID,
		TargetEntityDefID: f.book.def.ID,
		Attributes:        []types.AttributeDef{f.role},
	}
	require.NoError(t, NewEntityLinkDefRepo(store).Add(ctx, &f.linkDef))

	f.other = types.Entity{
		ID:               store.NewID(),
		DefID:            f.book.def.ID,
		ListingAttrDefID: f.book.title.ID,
		ListingAttrName:  f.book.title.Name,
		ListingAttrValue: "Children of Dune",
	}
	require.NoError(t, NewEntityRepo(store).Add(ctx, &f.other))

	f.link = types.EntityLink{
		ID:             store.NewID(),
		DefID:          f.linkDef.ID,
		SourceEntityID: f.book.ent.ID,
		TargetEntityID: f.other.ID,
		TextAttributes: []types.TextAttribute{types.NewTextAttributeFromDef(f.role)},
	}
	require.NoError(t, NewEntityLinkRepo(store).Add(ctx, &f.link))
	return f
}

func TestEntityLinkDefRoundTrip(t *testing.T) {
	store := newTestStore(t)
	f := newLinkFixture(t, store)
	repo := NewEntityLinkDefRepo(store)
	ctx := context.Background()

	got, err := repo.Get(ctx, f.linkDef.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "related to", got.Name)
	assert.Equal(t, types.ManyToMany, got.Cardinality)
	require.Len(t, got.Attributes, 1)
	assert.Equal(t, "role", got.Attributes[0].Name)

	got.Cardinality = types.OneToMany
	got.Attributes = nil
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.Get(ctx, f.linkDef.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, types.OneToMany, got.Cardinality)
	assert.Empty(t, got.Attributes)
}

func TestEntityLinkDefRemoveBlockedByLinks(t *testing.T) {
	store := newTestStore(t)
	f := newLinkFixture(t, store)
	repo := NewEntityLinkDefRepo(store)
	ctx := context.Background()

	err := repo.Remove(ctx, f.linkDef.ID)
	assert.ErrorIs(t, err, types.ErrDependenciesExist)

	require.NoError(t, NewEntityLinkRepo(store).Remove(ctx, f.link.ID))
	require.NoError(t, repo.Remove(ctx, f.linkDef.ID))
}

func TestEntityLinkGetAssemblesAttributes(t *testing.T) {
	store := newTestStore(t)
	f := newLinkFixture(t, store)
	repo := NewEntityLinkRepo(store)

	got, err := repo.Get(context.Background(), f.link.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "related to", got.Kind)
	assert.Equal(t, f.book.ent.ID, got.SourceEntityID)
	assert.Equal(t, f.other.ID, got.TargetEntityID)
	require.Len(t, got.TextAttributes, 1)
	assert.Equal(t, "role", got.TextAttributes[0].Name)
	assert.Equal(t, "author", got.TextAttributes[0].Value)
	assert.Equal(t, f.link.ID, got.TextAttributes[0].OwnerID)
}

func TestEntityLinkUpdateWritesAttributeValues(t *testing.T) {
	store := newTestStore(t)
	f := newLinkFixture(t, store)
	repo := NewEntityLinkRepo(store)
	ctx := context.Background()

	got, err := repo.Get(ctx, f.link.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	got.TextAttributes[0].Value = "editor"
	require.NoError(t, repo.Update(ctx, got))

	after, err := repo.Get(ctx, f.link.ID)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, "editor", after.TextAttributes[0].Value)
}

func TestEntityLinkRemoveDeletesAttributeInstances(t *testing.T) {
	store := newTestStore(t)
	f := newLinkFixture(t, store)
	repo := NewEntityLinkRepo(store)
	ctx := context.Background()

	require.NoError(t, repo.Remove(ctx, f.link.ID))

	got, err := repo.Get(ctx, f.link.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var n int
	require.NoError(t, store.db.Get(&n,
		"SELECT COUNT(*) FROM text_attributes WHERE owner_id = ?", f.link.ID))
	assert.Zero(t, n)
}

func TestEntityRemoveBlockedByLinks(t *testing.T) {
	store := newTestStore(t)
	f := newLinkFixture(t, store)
	repo := NewEntityRepo(store)
	ctx := context.Background()

	err := repo.Remove(ctx, f.book.ent.ID)
	assert.ErrorIs(t, err, types.ErrDependenciesExist)

	refs, err := NewEntityLinkRepo(store).ListRefsByEntityID(ctx, f.book.ent.ID)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, f.link.ID, refs[0].ID)
}
