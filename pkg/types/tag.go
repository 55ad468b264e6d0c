package types

// Tag is a simple label that an attribute definition may reference.
// The reference is weak: deleting a tag does not cascade into the
// definitions that mention it.
type Tag struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
}
