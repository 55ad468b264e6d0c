package mgmt

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/kindlab/metastore/internal/sqlite"
	"github.com/kindlab/metastore/pkg/types"
)

// EntityService manages entity instances.
type EntityService struct {
	store    *sqlite.Store
	entities *sqlite.EntityRepo
	entDefs  *sqlite.EntityDefRepo
	links    *sqlite.EntityLinkRepo
	log      zerolog.Logger
}

// Get retrieves an entity with assembled attributes; nil when absent.
func (s *EntityService) Get(ctx context.Context, id string) (*types.Entity, error) {
	return s.entities.Get(ctx, id)
}

// List returns a page of entity headers across all definitions.
func (s *EntityService) List(ctx context.Context, p *types.Pagination) ([]types.Entity, error) {
	return s.entities.List(ctx, p)
}

// ListByDefID returns a page of entity headers of one definition.
func (s *EntityService) ListByDefID(ctx context.Context, defID string, p *types.Pagination) ([]types.Entity, error) {
	return s.entities.ListByDefID(ctx, defID, p)
}

// NewEntity builds an unsaved entity of a definition with one attribute
// instance per referenced attribute, each seeded from the definition's
// default value. Attributes whose value type has no backing relation are
// skipped with a warning.
func (s *EntityService) NewEntity(ctx context.Context, defID string) (*types.Entity, error) {
	def, err := s.entDefs.Get(ctx, defID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, fmt.Errorf("entity def %s does not exist", defID)
	}

	ent := &types.Entity{
		Kind:  def.Name,
		DefID: def.ID,
	}
	for _, attr := range def.Attributes {
		switch attr.ValueType {
		case types.ValueTypeText:
			ent.TextAttributes = append(ent.TextAttributes, types.NewTextAttributeFromDef(attr))
		case types.ValueTypeSmallInteger:
			ent.SmallintAttributes = append(ent.SmallintAttributes, types.NewSmallintAttributeFromDef(attr))
		case types.ValueTypeInteger:
			ent.IntAttributes = append(ent.IntAttributes, types.NewIntegerAttributeFromDef(attr))
		case types.ValueTypeBoolean:
			ent.BooleanAttributes = append(ent.BooleanAttributes, types.NewBooleanAttributeFromDef(attr))
		default:
			s.log.Warn().
				Str("ent_def_id", def.ID).
				Str("attr_def_id", attr.ID).
				Str("value_type", attr.ValueType.Code()).
				Msg("skipping attribute with unsupported value type")
		}
	}
	return ent, nil
}

// Add persists an entity. The id is generated here, and the listing cache is
// materialized from the definition's listing attribute before the write, so
// the entity lists correctly from its first read.
func (s *EntityService) Add(ctx context.Context, ent *types.Entity) (*types.Entity, error) {
	def, err := s.entDefs.Get(ctx, ent.DefID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, fmt.Errorf("entity def %s does not exist", ent.DefID)
	}

	ent.ID = s.store.NewID()
	ent.Kind = def.Name
	ent.ListingAttrDefID = def.ListingAttrDefID
	ent.ListingAttrName = ""
	ent.ListingAttrValue = ""
	if def.ListingAttrDefID != "" {
		for _, attr := range def.Attributes {
			if attr.ID == def.ListingAttrDefID {
				ent.ListingAttrName = attr.Name
				break
			}
		}
		ent.ListingAttrValue = listingValueOf(ent, def.ListingAttrDefID)
	}

	if err := s.entities.Add(ctx, ent); err != nil {
		return nil, err
	}
	return ent, nil
}

// Update writes the entity's attribute values. The listing cache follows
// inside the repository transaction.
func (s *EntityService) Update(ctx context.Context, ent *types.Entity) error {
	return s.entities.Update(ctx, ent)
}

// Remove deletes an entity and its attribute instances. When the delete is
// blocked, the error carries the links that still touch it.
func (s *EntityService) Remove(ctx context.Context, id string) error {
	err := s.entities.Remove(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, types.ErrDependenciesExist) {
		return err
	}
	refs, lerr := s.links.ListRefsByEntityID(ctx, id)
	if lerr != nil {
		return &types.DependencyError{}
	}
	return &types.DependencyError{Refs: refs}
}

// listingValueOf renders the entity's instance of the listing attribute as
// text. The typed collections are scanned text first, then smallint, integer
// and boolean; the first instance of the listing definition wins.
func listingValueOf(ent *types.Entity, listingDefID string) string {
	for _, a := range ent.TextAttributes {
		if a.DefID == listingDefID {
			return a.Value
		}
	}
	for _, a := range ent.SmallintAttributes {
		if a.DefID == listingDefID {
			return strconv.FormatInt(int64(a.Value), 10)
		}
	}
	for _, a := range ent.IntAttributes {
		if a.DefID == listingDefID {
			return strconv.FormatInt(int64(a.Value), 10)
		}
	}
	for _, a := range ent.BooleanAttributes {
		if a.DefID == listingDefID {
			return strconv.FormatBool(a.Value)
		}
	}
	return ""
}
