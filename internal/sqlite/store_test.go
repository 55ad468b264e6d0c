package sqlite

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a store over a throwaway directory and closes it when
// the test ends.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCreatesDatabase(t *testing.T) {
	store := newTestStore(t)
	require.NotNil(t, store.db)

	// The schema is idempotent; re-applying must not fail.
	_, err := store.db.Exec(schemaDDL)
	require.NoError(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	store, err := Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestNewIDIsUnique(t *testing.T) {
	store := newTestStore(t)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := store.NewID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
