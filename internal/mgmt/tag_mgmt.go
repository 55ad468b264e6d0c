package mgmt

import (
	"context"

	"github.com/kindlab/metastore/internal/sqlite"
	"github.com/kindlab/metastore/pkg/types"
)

// TagService manages tags.
type TagService struct {
	store *sqlite.Store
	tags  *sqlite.TagRepo
}

// Get retrieves a tag; nil when absent.
func (s *TagService) Get(ctx context.Context, id string) (*types.Tag, error) {
	return s.tags.Get(ctx, id)
}

// List returns a page of tags ordered by name.
func (s *TagService) List(ctx context.Context, p *types.Pagination) ([]types.Tag, error) {
	return s.tags.List(ctx, p)
}

// Add creates a tag with a generated id.
func (s *TagService) Add(ctx context.Context, tag *types.Tag) (*types.Tag, error) {
	tag.ID = s.store.NewID()
	if err := s.tags.Add(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Update edits a tag.
func (s *TagService) Update(ctx context.Context, tag *types.Tag) error {
	return s.tags.Update(ctx, tag)
}

// Remove deletes a tag. Definitions referencing it are untouched.
func (s *TagService) Remove(ctx context.Context, id string) error {
	return s.tags.Remove(ctx, id)
}
