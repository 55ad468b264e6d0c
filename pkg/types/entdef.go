package types

// EntityDef is the definition of an entity kind. Attributes holds the
// referenced attribute definitions in display order; the order is persisted
// as a position index on the membership relation.
type EntityDef struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description *string        `db:"description" json:"description,omitempty"`
	Attributes  []AttributeDef `json:"attributes"`

	// ListingAttrDefID selects which of the referenced attributes
	// represents instances of this kind in listings. If set, it must be
	// one of the referenced attribute ids.
	ListingAttrDefID string `db:"listing_attr_def_id" json:"listing_attr_def_id"`
}
