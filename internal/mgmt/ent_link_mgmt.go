package mgmt

import (
	"context"
	"fmt"

	"github.com/kindlab/metastore/internal/sqlite"
	"github.com/kindlab/metastore/pkg/types"
)

// EntityLinkService manages entity-link instances.
type EntityLinkService struct {
	store    *sqlite.Store
	links    *sqlite.EntityLinkRepo
	linkDefs *sqlite.EntityLinkDefRepo
	entities *sqlite.EntityRepo
}

// Get retrieves a link with assembled attributes; nil when absent.
func (s *EntityLinkService) Get(ctx context.Context, id string) (*types.EntityLink, error) {
	return s.links.Get(ctx, id)
}

// List returns a page of link headers.
func (s *EntityLinkService) List(ctx context.Context, p *types.Pagination) ([]types.EntityLink, error) {
	return s.links.List(ctx, p)
}

// ListByDefID returns a page of link headers of one definition.
func (s *EntityLinkService) ListByDefID(ctx context.Context, defID string, p *types.Pagination) ([]types.EntityLink, error) {
	return s.links.ListByDefID(ctx, defID, p)
}

// NewLink builds an unsaved link of a definition with one attribute instance
// per referenced attribute, seeded from the definitions' default values.
func (s *EntityLinkService) NewLink(ctx context.Context, defID, sourceID, targetID string) (*types.EntityLink, error) {
	def, err := s.linkDefs.Get(ctx, defID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, fmt.Errorf("entity link def %s does not exist", defID)
	}

	link := &types.EntityLink{
		Kind:           def.Name,
		DefID:          def.ID,
		SourceEntityID: sourceID,
		TargetEntityID: targetID,
	}
	for _, attr := range def.Attributes {
		switch attr.ValueType {
		case types.ValueTypeText:
			link.TextAttributes = append(link.TextAttributes, types.NewTextAttributeFromDef(attr))
		case types.ValueTypeSmallInteger:
			link.SmallintAttributes = append(link.SmallintAttributes, types.NewSmallintAttributeFromDef(attr))
		case types.ValueTypeInteger:
			link.IntAttributes = append(link.IntAttributes, types.NewIntegerAttributeFromDef(attr))
		case types.ValueTypeBoolean:
			link.BooleanAttributes = append(link.BooleanAttributes, types.NewBooleanAttributeFromDef(attr))
		}
	}
	return link, nil
}

// Add persists a link with a generated id. Both endpoints must exist; the
// store's foreign keys reject dangling references.
func (s *EntityLinkService) Add(ctx context.Context, link *types.EntityLink) (*types.EntityLink, error) {
	link.ID = s.store.NewID()
	if err := s.links.Add(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// Update writes the link's attribute values.
func (s *EntityLinkService) Update(ctx context.Context, link *types.EntityLink) error {
	return s.links.Update(ctx, link)
}

// Remove deletes a link and its attribute instances.
func (s *EntityLinkService) Remove(ctx context.Context, id string) error {
	return s.links.Remove(ctx, id)
}
