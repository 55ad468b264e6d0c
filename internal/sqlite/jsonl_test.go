package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindlab/metastore/pkg/types"
)

func readJSONLFile(t *testing.T, path string) []json.RawMessage {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		require.True(t, json.Valid(line), "line is not valid JSON: %s", line)
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, cp)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestExportWritesAllRelationKinds(t *testing.T) {
	store := newTestStore(t)
	f := newLinkFixture(t, store)
	dir := t.TempDir()

	require.NoError(t, NewExporter(store).Export(context.Background(), dir))

	for _, name := range []string{
		exportTagsFile, exportAttrDefsFile, exportEntDefsFile,
		exportEntLinkDefsFile, exportEntitiesFile, exportEntLinksFile,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "expected %s to exist", name)
	}

	entities := readJSONLFile(t, filepath.Join(dir, exportEntitiesFile))
	require.Len(t, entities, 2)

	var ent types.Entity
	require.NoError(t, json.Unmarshal(entities[0], &ent))
	assert.Equal(t, "Book", ent.Kind)

	// Entity records carry assembled attribute instances, not just headers.
	found := false
	for _, raw := range entities {
		var e types.Entity
		require.NoError(t, json.Unmarshal(raw, &e))
		if e.ID == f.book.ent.ID {
			found = true
			require.Len(t, e.TextAttributes, 1)
			assert.Equal(t, "Dune", e.TextAttributes[0].Value)
		}
	}
	assert.True(t, found)

	links := readJSONLFile(t, filepath.Join(dir, exportEntLinksFile))
	require.Len(t, links, 1)
	var link types.EntityLink
	require.NoError(t, json.Unmarshal(links[0], &link))
	assert.Equal(t, f.link.ID, link.ID)
	require.Len(t, link.TextAttributes, 1)
}

func TestExportEmptyStore(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()

	require.NoError(t, NewExporter(store).Export(context.Background(), dir))

	records := readJSONLFile(t, filepath.Join(dir, exportEntitiesFile))
	assert.Empty(t, records)
}
