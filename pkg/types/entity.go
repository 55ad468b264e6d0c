package types

// AttributeRef locates one attribute instance inside its typed collection.
// The pair is used purely for display sequencing.
type AttributeRef struct {
	ValueType   AttributeValueType `json:"value_type"`
	AttributeID string             `json:"attribute_id"`
}

// Entity is an instance of an entity definition. The four typed collections
// hold its attribute instances partitioned by value type; AttributesOrder
// records the display order recovered from the definition's membership
// positions.
//
// ListingAttrDefID, ListingAttrName and ListingAttrValue are a denormalized
// cache of the definition's listing attribute, materialized at write time so
// list views never join into the attribute relations. Every attribute-value
// write path must refresh ListingAttrValue when the written attribute is the
// listing one.
type Entity struct {
	ID string `db:"id" json:"id"`

	// Kind is the definition name, denormalized for listings.
	Kind  string `db:"kind" json:"kind"`
	DefID string `db:"def_id" json:"def_id"`

	AttributesOrder []AttributeRef `json:"attributes_order"`

	TextAttributes     []TextAttribute     `json:"text_attributes"`
	SmallintAttributes []SmallintAttribute `json:"smallint_attributes"`
	IntAttributes      []IntegerAttribute  `json:"int_attributes"`
	BooleanAttributes  []BooleanAttribute  `json:"boolean_attributes"`

	ListingAttrDefID string `db:"listing_attr_def_id" json:"listing_attr_def_id"`
	ListingAttrName  string `db:"listing_attr_name" json:"listing_attr_name"`
	ListingAttrValue string `db:"listing_attr_value" json:"listing_attr_value"`
}
