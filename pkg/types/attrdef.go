package types

// AttributeDef is the schema-level description of a single attribute.
// It is created standalone and referenced (never owned) by entity and
// entity-link definitions via ordered membership. The (name, description)
// pair is unique within the attribute-definition namespace.
type AttributeDef struct {
	ID          string             `db:"id" json:"id"`
	Name        string             `db:"name" json:"name"`
	Description *string            `db:"description" json:"description,omitempty"`
	ValueType   AttributeValueType `db:"value_type" json:"value_type"`

	// DefaultValue is stored as text regardless of ValueType and parsed
	// per-type lazily when an attribute instance is seeded from it.
	DefaultValue string  `db:"default_value" json:"default_value"`
	IsRequired   bool    `db:"required" json:"is_required"`
	TagID        *string `db:"tag_id" json:"tag_id,omitempty"`
}

// NewAttributeRef returns a def carrying only id and name, as produced by
// membership listings where the full definition is not needed.
func NewAttributeRef(id, name string) AttributeDef {
	return AttributeDef{ID: id, Name: name, ValueType: ValueTypeText}
}
