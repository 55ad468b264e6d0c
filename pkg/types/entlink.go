package types

// EntityLink is an instance of a relationship between two entities.
// Links are not independently listed by value, so they carry no listing
// attribute cache.
type EntityLink struct {
	ID string `db:"id" json:"id"`

	// Kind is the definition name, denormalized for listings.
	Kind  string `db:"kind" json:"kind"`
	DefID string `db:"def_id" json:"def_id"`

	SourceEntityID string `db:"source_entity_id" json:"source_entity_id"`
	TargetEntityID string `db:"target_entity_id" json:"target_entity_id"`

	TextAttributes     []TextAttribute     `json:"text_attributes"`
	SmallintAttributes []SmallintAttribute `json:"smallint_attributes"`
	IntAttributes      []IntegerAttribute  `json:"int_attributes"`
	BooleanAttributes  []BooleanAttribute  `json:"boolean_attributes"`
}
