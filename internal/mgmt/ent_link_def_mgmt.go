package mgmt

import (
	"context"
	"errors"

	"github.com/kindlab/metastore/internal/sqlite"
	"github.com/kindlab/metastore/pkg/types"
)

// EntityLinkDefService manages entity-link definitions.
type EntityLinkDefService struct {
	store *sqlite.Store
	defs  *sqlite.EntityLinkDefRepo
	links *sqlite.EntityLinkRepo
}

// Get retrieves a definition; nil when absent.
func (s *EntityLinkDefService) Get(ctx context.Context, id string) (*types.EntityLinkDef, error) {
	return s.defs.Get(ctx, id)
}

// List returns a page of definitions ordered by name.
func (s *EntityLinkDefService) List(ctx context.Context, p *types.Pagination) ([]types.EntityLinkDef, error) {
	return s.defs.List(ctx, p)
}

// Add creates a definition with a generated id.
func (s *EntityLinkDefService) Add(ctx context.Context, def *types.EntityLinkDef) (*types.EntityLinkDef, error) {
	def.ID = s.store.NewID()
	if err := s.defs.Add(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}

// Update edits a definition and replaces its attribute membership.
func (s *EntityLinkDefService) Update(ctx context.Context, def *types.EntityLinkDef) error {
	return s.defs.Update(ctx, def)
}

// Remove deletes a definition. When the delete is blocked, the error carries
// the link instances that still use it.
func (s *EntityLinkDefService) Remove(ctx context.Context, id string) error {
	err := s.defs.Remove(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, types.ErrDependenciesExist) {
		return err
	}
	refs, lerr := s.links.ListRefsByDefID(ctx, id)
	if lerr != nil {
		return &types.DependencyError{}
	}
	return &types.DependencyError{Refs: refs}
}
