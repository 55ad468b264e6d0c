package mgmt

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/kindlab/metastore/internal/sqlite"
	"github.com/kindlab/metastore/pkg/types"
)

func newTestMgmt(t *testing.T) *Mgmt {
	t.Helper()
	store, err := sqlite.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store, zerolog.Nop())
}

func strptr(s string) *string { return &s }

// addAttrDef creates an attribute definition through the service.
func addAttrDef(t *testing.T, m *Mgmt, name string, vt types.AttributeValueType, defaultValue string) types.AttributeDef {
	t.Helper()
	def, err := m.AttrDefs.Add(context.Background(), &types.AttributeDef{
		Name:         name,
		Description:  strptr(name + " description"),
		ValueType:    vt,
		DefaultValue: defaultValue,
	})
	require.NoError(t, err)
	require.NotEmpty(t, def.ID)
	return *def
}

// addBookDef creates a Book definition listing by its title attribute.
func addBookDef(t *testing.T, m *Mgmt, attrs ...types.AttributeDef) types.EntityDef {
	t.Helper()
	def := types.EntityDef{
		Name:       "Book",
		Attributes: attrs,
	}
	if len(attrs) > 0 {
		def.ListingAttrDefID = attrs[0].ID
	}
	got, err := m.EntityDefs.Add(context.Background(), &def)
	require.NoError(t, err)
	return *got
}
