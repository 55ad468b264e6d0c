package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kindlab/metastore/pkg/types"
)

// TagRepo persists tags.
type TagRepo struct {
	store *Store
}

// NewTagRepo returns a repository bound to the store.
func NewTagRepo(store *Store) *TagRepo {
	return &TagRepo{store: store}
}

// Get retrieves a tag by id. A missing id yields a nil result.
func (r *TagRepo) Get(ctx context.Context, id string) (*types.Tag, error) {
	var tag types.Tag
	err := r.store.db.GetContext(ctx, &tag,
		"SELECT id, name, description FROM tags WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting tag %s: %w", id, err)
	}
	return &tag, nil
}

// List returns tags ordered by name.
func (r *TagRepo) List(ctx context.Context, p *types.Pagination) ([]types.Tag, error) {
	offset, limit := p.OffsetLimit()
	tags := []types.Tag{}
	err := r.store.db.SelectContext(ctx, &tags,
		"SELECT id, name, description FROM tags ORDER BY name LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// Add inserts a new tag.
func (r *TagRepo) Add(ctx context.Context, tag *types.Tag) error {
	_, err := r.store.db.ExecContext(ctx,
		"INSERT INTO tags (id, name, description) VALUES (?, ?, ?)",
		tag.ID, tag.Name, tag.Description)
	if err != nil {
		r.store.log.Error().Err(err).Str("name", tag.Name).Msg("failed to add tag")
		return fmt.Errorf("adding tag: %w", err)
	}
	return nil
}

// Update edits an existing tag.
func (r *TagRepo) Update(ctx context.Context, tag *types.Tag) error {
	_, err := r.store.db.ExecContext(ctx,
		"UPDATE tags SET name = ?, description = ? WHERE id = ?",
		tag.Name, tag.Description, tag.ID)
	if err != nil {
		r.store.log.Error().Err(err).Str("id", tag.ID).Msg("failed to update tag")
		return fmt.Errorf("updating tag: %w", err)
	}
	return nil
}

// Remove deletes a tag. Definitions referencing it keep their tag_id; the
// reference is weak.
func (r *TagRepo) Remove(ctx context.Context, id string) error {
	_, err := r.store.db.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		r.store.log.Error().Err(err).Str("id", id).Msg("failed to delete tag")
		return fmt.Errorf("deleting tag: %w", err)
	}
	return nil
}
