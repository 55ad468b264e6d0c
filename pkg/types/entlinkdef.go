package types

// Cardinality is the multiplicity constraint of an entity-link definition.
// The underlying string is the persisted code.
type Cardinality string

const (
	OneToOne   Cardinality = "1:1"
	OneToMany  Cardinality = "1:M"
	ManyToMany Cardinality = "M:M"
)

// AllCardinalities lists the cardinality variants for selection widgets.
var AllCardinalities = []Cardinality{OneToOne, OneToMany, ManyToMany}

// Code returns the persisted code of the cardinality.
func (c Cardinality) Code() string {
	return string(c)
}

// CardinalityFromCode decodes a persisted code; unknown codes decode to
// OneToOne.
func CardinalityFromCode(code string) Cardinality {
	switch Cardinality(code) {
	case OneToOne, OneToMany, ManyToMany:
		return Cardinality(code)
	default:
		return OneToOne
	}
}

// EntityLinkDef defines the shape of relationships between two entity kinds.
// Attributes, when present, is an unordered set of referenced attribute
// definitions carried by instances of the link.
type EntityLinkDef struct {
	ID                string         `db:"id" json:"id"`
	Name              string         `db:"name" json:"name"`
	Description       *string        `db:"description" json:"description,omitempty"`
	Cardinality       Cardinality    `db:"cardinality" json:"cardinality"`
	SourceEntityDefID string         `db:"source_entity_def_id" json:"source_entity_def_id"`
	TargetEntityDefID string         `db:"target_entity_def_id" json:"target_entity_def_id"`
	Attributes        []AttributeDef `json:"attributes,omitempty"`
}
