package mgmt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindlab/metastore/pkg/types"
)

func TestAttributeDefAddGeneratesID(t *testing.T) {
	m := newTestMgmt(t)
	ctx := context.Background()

	def, err := m.AttrDefs.Add(ctx, &types.AttributeDef{
		ID:        "caller-supplied",
		Name:      "title",
		ValueType: types.ValueTypeText,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "caller-supplied", def.ID)

	got, err := m.AttrDefs.Get(ctx, def.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "title", got.Name)
}

func TestAttributeDefRenamePropagatesToListingCache(t *testing.T) {
	m := newTestMgmt(t)
	ctx := context.Background()

	title := addAttrDef(t, m, "title", types.ValueTypeText, "")
	bookDef := addBookDef(t, m, title)

	ent, err := m.Entities.NewEntity(ctx, bookDef.ID)
	require.NoError(t, err)
	ent.TextAttributes[0].Value = "Dune"
	ent, err = m.Entities.Add(ctx, ent)
	require.NoError(t, err)

	title.Name = "full title"
	require.NoError(t, m.AttrDefs.Update(ctx, &title))

	got, err := m.Entities.Get(ctx, ent.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "full title", got.ListingAttrName)
	assert.Equal(t, "Dune", got.ListingAttrValue)
	require.Len(t, got.TextAttributes, 1)
	assert.Equal(t, "full title", got.TextAttributes[0].Name)
}

func TestAttributeDefRemoveReportsDependents(t *testing.T) {
	m := newTestMgmt(t)
	ctx := context.Background()

	title := addAttrDef(t, m, "title", types.ValueTypeText, "")
	addBookDef(t, m, title)

	err := m.AttrDefs.Remove(ctx, title.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDependenciesExist)

	var depErr *types.DependencyError
	require.ErrorAs(t, err, &depErr)
	require.Len(t, depErr.Refs, 1)
	assert.Equal(t, "Book", depErr.Refs[0].Name)
	assert.Contains(t, err.Error(), "Book")
}

func TestAttributeDefDuplicateNameDescription(t *testing.T) {
	m := newTestMgmt(t)
	ctx := context.Background()

	_, err := m.AttrDefs.Add(ctx, &types.AttributeDef{
		Name: "title", Description: strptr("d"), ValueType: types.ValueTypeText,
	})
	require.NoError(t, err)

	_, err = m.AttrDefs.Add(ctx, &types.AttributeDef{
		Name: "title", Description: strptr("d"), ValueType: types.ValueTypeText,
	})
	assert.ErrorIs(t, err, types.ErrNameDescriptionNotUnique)
}
