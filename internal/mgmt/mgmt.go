// Package mgmt is the management layer over the sqlite repositories. It owns
// identifier generation, cross-repository units of work, the listing-cache
// maintenance rules, and the enrichment of rejected deletes with the list of
// dependents.
package mgmt

import (
	"github.com/rs/zerolog"

	"github.com/kindlab/metastore/internal/sqlite"
)

// Mgmt bundles the per-kind services over one store.
type Mgmt struct {
	Tags       *TagService
	AttrDefs   *AttributeDefService
	EntityDefs *EntityDefService
	LinkDefs   *EntityLinkDefService
	Entities   *EntityService
	Links      *EntityLinkService
}

// New wires the services over the store.
func New(store *sqlite.Store, logger zerolog.Logger) *Mgmt {
	tags := sqlite.NewTagRepo(store)
	attrDefs := sqlite.NewAttributeDefRepo(store)
	entDefs := sqlite.NewEntityDefRepo(store)
	linkDefs := sqlite.NewEntityLinkDefRepo(store)
	entities := sqlite.NewEntityRepo(store)
	links := sqlite.NewEntityLinkRepo(store)

	return &Mgmt{
		Tags: &TagService{store: store, tags: tags},
		AttrDefs: &AttributeDefService{
			store: store, defs: attrDefs, entDefs: entDefs,
			linkDefs: linkDefs, entities: entities, log: logger,
		},
		EntityDefs: &EntityDefService{
			store: store, defs: entDefs,
			linkDefs: linkDefs, entities: entities, log: logger,
		},
		LinkDefs: &EntityLinkDefService{
			store: store, defs: linkDefs, links: links,
		},
		Entities: &EntityService{
			store: store, entities: entities, entDefs: entDefs,
			links: links, log: logger,
		},
		Links: &EntityLinkService{
			store: store, links: links, linkDefs: linkDefs, entities: entities,
		},
	}
}
