package mgmt

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kindlab/metastore/internal/sqlite"
	"github.com/kindlab/metastore/pkg/types"
)

// EntityDefService manages entity definitions and keeps the per-entity
// listing cache consistent with the definition's listing attribute.
type EntityDefService struct {
	store    *sqlite.Store
	defs     *sqlite.EntityDefRepo
	linkDefs *sqlite.EntityLinkDefRepo
	entities *sqlite.EntityRepo
	log      zerolog.Logger
}

// Get retrieves a definition with its ordered attributes; nil when absent.
func (s *EntityDefService) Get(ctx context.Context, id string) (*types.EntityDef, error) {
	return s.defs.Get(ctx, id)
}

// List returns a page of definitions ordered by name.
func (s *EntityDefService) List(ctx context.Context, p *types.Pagination) ([]types.EntityDef, error) {
	return s.defs.List(ctx, p)
}

// ListIDsNames returns (id, name) pairs for selection widgets.
func (s *EntityDefService) ListIDsNames(ctx context.Context) ([]types.Ref, error) {
	return s.defs.ListIDsNames(ctx)
}

// Add creates a definition with a generated id. The listing attribute, when
// set, must be one of the referenced attributes.
func (s *EntityDefService) Add(ctx context.Context, def *types.EntityDef) (*types.EntityDef, error) {
	if err := validateListingMember(def); err != nil {
		return nil, err
	}
	def.ID = s.store.NewID()
	if err := s.defs.Add(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}

// Update edits a definition and its membership. When the listing attribute
// changed, every existing entity of the definition has its cached listing
// name and value rebuilt from the stored attribute instances.
func (s *EntityDefService) Update(ctx context.Context, def *types.EntityDef) error {
	if err := validateListingMember(def); err != nil {
		return err
	}

	prev, err := s.defs.Get(ctx, def.ID)
	if err != nil {
		return err
	}
	if prev == nil {
		return fmt.Errorf("entity def %s does not exist", def.ID)
	}

	if err := s.defs.Update(ctx, def); err != nil {
		return err
	}

	if prev.ListingAttrDefID == def.ListingAttrDefID {
		return nil
	}
	name := ""
	for _, attr := range def.Attributes {
		if attr.ID == def.ListingAttrDefID {
			name = attr.Name
			break
		}
	}
	return s.entities.UpdateListingAttrNameValueByEntDefID(ctx, def.ID, def.ListingAttrDefID, name)
}

// Remove deletes a definition. When the delete is blocked, the error carries
// the entities and link definitions that still depend on it.
func (s *EntityDefService) Remove(ctx context.Context, id string) error {
	err := s.defs.Remove(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, types.ErrDependenciesExist) {
		return err
	}

	refs, lerr := s.entities.ListRefsByDefID(ctx, id)
	if lerr != nil {
		s.log.Error().Err(lerr).Str("id", id).Msg("failed to enumerate entity dependents")
		return &types.DependencyError{}
	}
	linkDefRefs, lerr := s.linkDefs.ListRefsByEntityDefID(ctx, id)
	if lerr != nil {
		s.log.Error().Err(lerr).Str("id", id).Msg("failed to enumerate link def dependents")
		return &types.DependencyError{Refs: refs}
	}
	return &types.DependencyError{Refs: append(refs, linkDefRefs...)}
}

// validateListingMember rejects a listing attribute that is not part of the
// definition's membership.
func validateListingMember(def *types.EntityDef) error {
	if def.ListingAttrDefID == "" {
		return nil
	}
	for _, attr := range def.Attributes {
		if attr.ID == def.ListingAttrDefID {
			return nil
		}
	}
	return fmt.Errorf("listing attribute %s is not referenced by definition %q", def.ListingAttrDefID, def.Name)
}
