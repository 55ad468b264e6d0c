package mgmt

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kindlab/metastore/internal/sqlite"
	"github.com/kindlab/metastore/pkg/types"
)

// AttributeDefService manages attribute definitions.
type AttributeDefService struct {
	store    *sqlite.Store
	defs     *sqlite.AttributeDefRepo
	entDefs  *sqlite.EntityDefRepo
	linkDefs *sqlite.EntityLinkDefRepo
	entities *sqlite.EntityRepo
	log      zerolog.Logger
}

// Get retrieves a definition; nil when absent.
func (s *AttributeDefService) Get(ctx context.Context, id string) (*types.AttributeDef, error) {
	return s.defs.Get(ctx, id)
}

// List returns a page of definitions ordered by name.
func (s *AttributeDefService) List(ctx context.Context, p *types.Pagination) ([]types.AttributeDef, error) {
	return s.defs.List(ctx, p)
}

// Add creates a definition. The id is always generated here; caller-supplied
// ids are discarded.
func (s *AttributeDefService) Add(ctx context.Context, def *types.AttributeDef) (*types.AttributeDef, error) {
	def.ID = s.store.NewID()
	if err := s.defs.Add(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}

// Update edits a definition. The rename and the propagation of the new name
// into every entity's cached listing name commit in one transaction, so a
// reader never sees a renamed definition next to stale cached names.
func (s *AttributeDefService) Update(ctx context.Context, def *types.AttributeDef) error {
	tx, err := s.store.BeginTxx(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.defs.UpdateTx(ctx, tx, def); err != nil {
		return err
	}
	if err := s.entities.UpdateListingAttrNameByAttrDefIDTx(ctx, tx, def.ID, def.Name); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing attribute def update: %w", err)
	}
	return nil
}

// Remove deletes a definition. When the delete is blocked, the error carries
// the entity and link definitions that still reference it.
func (s *AttributeDefService) Remove(ctx context.Context, id string) error {
	err := s.defs.Remove(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, types.ErrDependenciesExist) {
		return err
	}

	refs, lerr := s.entDefs.ListRefsByAttrDefID(ctx, id)
	if lerr != nil {
		s.log.Error().Err(lerr).Str("id", id).Msg("failed to enumerate entity def dependents")
		return &types.DependencyError{}
	}
	linkRefs, lerr := s.linkDefs.ListRefsByAttrDefID(ctx, id)
	if lerr != nil {
		s.log.Error().Err(lerr).Str("id", id).Msg("failed to enumerate link def dependents")
		return &types.DependencyError{Refs: refs}
	}
	return &types.DependencyError{Refs: append(refs, linkRefs...)}
}
