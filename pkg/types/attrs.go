package types

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Attribute instances are exclusively owned by exactly one entity or
// entity-link; they are never shared. Name is copied from the definition at
// creation time, not re-derived on read.
//
// The NewXAttributeFromDef constructors seed the instance value from the
// definition's textual default. Parsing is deliberately lenient: an empty
// default yields the type's zero value, and an unparsable default is logged
// and replaced by the zero value instead of failing the create.

// TextAttribute is an attribute instance holding a text value.
type TextAttribute struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Value   string `db:"value" json:"value"`
	DefID   string `db:"def_id" json:"def_id"`
	OwnerID string `db:"owner_id" json:"owner_id"`
}

// SmallintAttribute is an attribute instance holding a 16-bit signed integer.
type SmallintAttribute struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Value   int16  `db:"value" json:"value"`
	DefID   string `db:"def_id" json:"def_id"`
	OwnerID string `db:"owner_id" json:"owner_id"`
}

// IntegerAttribute is an attribute instance holding a 32-bit signed integer.
type IntegerAttribute struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Value   int32  `db:"value" json:"value"`
	DefID   string `db:"def_id" json:"def_id"`
	OwnerID string `db:"owner_id" json:"owner_id"`
}

// BooleanAttribute is an attribute instance holding a boolean value.
type BooleanAttribute struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Value   bool   `db:"value" json:"value"`
	DefID   string `db:"def_id" json:"def_id"`
	OwnerID string `db:"owner_id" json:"owner_id"`
}

// NewTextAttributeFromDef seeds a text attribute instance from a definition.
func NewTextAttributeFromDef(def AttributeDef) TextAttribute {
	return TextAttribute{
		Name:  def.Name,
		Value: def.DefaultValue,
		DefID: def.ID,
	}
}

// NewSmallintAttributeFromDef seeds a smallint attribute instance from a
// definition.
func NewSmallintAttributeFromDef(def AttributeDef) SmallintAttribute {
	var value int16
	if s := strings.TrimSpace(def.DefaultValue); s != "" {
		v, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			log.Error().
				Str("attr_def_id", def.ID).
				Str("default_value", def.DefaultValue).
				Err(err).
				Msg("failed to parse default value as int16")
		} else {
			value = int16(v)
		}
	}
	return SmallintAttribute{
		Name:  def.Name,
		Value: value,
		DefID: def.ID,
	}
}

// NewIntegerAttributeFromDef seeds an integer attribute instance from a
// definition.
func NewIntegerAttributeFromDef(def AttributeDef) IntegerAttribute {
	var value int32
	if s := strings.TrimSpace(def.DefaultValue); s != "" {
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			log.Error().
				Str("attr_def_id", def.ID).
				Str("default_value", def.DefaultValue).
				Err(err).
				Msg("failed to parse default value as int32")
		} else {
			value = int32(v)
		}
	}
	return IntegerAttribute{
		Name:  def.Name,
		Value: value,
		DefID: def.ID,
	}
}

// NewBooleanAttributeFromDef seeds a boolean attribute instance from a
// definition.
func NewBooleanAttributeFromDef(def AttributeDef) BooleanAttribute {
	var value bool
	if s := strings.TrimSpace(def.DefaultValue); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			log.Error().
				Str("attr_def_id", def.ID).
				Str("default_value", def.DefaultValue).
				Err(err).
				Msg("failed to parse default value as bool")
		} else {
			value = v
		}
	}
	return BooleanAttribute{
		Name:  def.Name,
		Value: value,
		DefID: def.ID,
	}
}
