package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kindlab/metastore/pkg/types"
)

// Export file names inside the export directory.
const (
	exportTagsFile        = "tags.jsonl"
	exportAttrDefsFile    = "attribute_defs.jsonl"
	exportEntDefsFile     = "entity_defs.jsonl"
	exportEntLinkDefsFile = "entity_link_defs.jsonl"
	exportEntitiesFile    = "entities.jsonl"
	exportEntLinksFile    = "entity_links.jsonl"
)

// Exporter dumps the whole store as JSONL files, one record per line, one
// file per relation kind. Entities and links are exported fully assembled so
// the dump is readable without the database.
type Exporter struct {
	store    *Store
	tags     *TagRepo
	attrDefs *AttributeDefRepo
	entDefs  *EntityDefRepo
	linkDefs *EntityLinkDefRepo
	entities *EntityRepo
	links    *EntityLinkRepo
}

// NewExporter returns an exporter over the store.
func NewExporter(store *Store) *Exporter {
	return &Exporter{
		store:    store,
		tags:     NewTagRepo(store),
		attrDefs: NewAttributeDefRepo(store),
		entDefs:  NewEntityDefRepo(store),
		linkDefs: NewEntityLinkDefRepo(store),
		entities: NewEntityRepo(store),
		links:    NewEntityLinkRepo(store),
	}
}

// exportPageLimit bounds each page read during export.
const exportPageLimit = 500

// Export writes every relation kind to dir. Each file is written atomically,
// but the export as a whole is not one snapshot; concurrent writers can move
// the data between files.
func (e *Exporter) Export(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	if err := exportPaged(ctx, dir, exportTagsFile, e.tags.List); err != nil {
		return err
	}
	if err := exportPaged(ctx, dir, exportAttrDefsFile, e.attrDefs.List); err != nil {
		return err
	}
	if err := exportPaged(ctx, dir, exportEntDefsFile, e.entDefs.List); err != nil {
		return err
	}
	if err := exportPaged(ctx, dir, exportEntLinkDefsFile, e.linkDefs.List); err != nil {
		return err
	}
	if err := exportPaged(ctx, dir, exportEntitiesFile, e.listEntitiesAssembled); err != nil {
		return err
	}
	if err := exportPaged(ctx, dir, exportEntLinksFile, e.listLinksAssembled); err != nil {
		return err
	}
	e.store.log.Info().Str("dir", dir).Msg("export complete")
	return nil
}

// listEntitiesAssembled re-reads each listed entity through Get so the export
// carries attribute instances, not just the listing cache.
func (e *Exporter) listEntitiesAssembled(ctx context.Context, p *types.Pagination) ([]types.Entity, error) {
	headers, err := e.entities.List(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]types.Entity, 0, len(headers))
	for _, h := range headers {
		ent, err := e.entities.Get(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		if ent != nil {
			out = append(out, *ent)
		}
	}
	return out, nil
}

func (e *Exporter) listLinksAssembled(ctx context.Context, p *types.Pagination) ([]types.EntityLink, error) {
	headers, err := e.links.List(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]types.EntityLink, 0, len(headers))
	for _, h := range headers {
		link, err := e.links.Get(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		if link != nil {
			out = append(out, *link)
		}
	}
	return out, nil
}

// exportPaged walks a paged lister to the end and writes the records as one
// JSONL file.
func exportPaged[T any](ctx context.Context, dir, name string, list func(context.Context, *types.Pagination) ([]T, error)) error {
	var records []json.RawMessage
	for page := 1; ; page++ {
		items, err := list(ctx, &types.Pagination{Page: page, Limit: exportPageLimit})
		if err != nil {
			return fmt.Errorf("exporting %s: %w", name, err)
		}
		for _, item := range items {
			raw, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("encoding %s record: %w", name, err)
			}
			records = append(records, raw)
		}
		if len(items) < exportPageLimit {
			break
		}
	}
	return writeJSONL(filepath.Join(dir, name), records)
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
