package types

// AttributeValueType is the closed set of value kinds an attribute definition
// can take. The underlying string is the short machine code persisted in the
// value_type column and used to route attribute instances to the correct
// typed relation.
type AttributeValueType string

const (
	ValueTypeText         AttributeValueType = "text"
	ValueTypeSmallInteger AttributeValueType = "smallint"
	ValueTypeInteger      AttributeValueType = "integer"
	ValueTypeBigInteger   AttributeValueType = "bigint"
	ValueTypeDecimal      AttributeValueType = "real"
	ValueTypeBoolean      AttributeValueType = "boolean"
	ValueTypeDate         AttributeValueType = "date"
	ValueTypeDateTime     AttributeValueType = "timestamp"
)

// AllValueTypes lists every value type in display order.
var AllValueTypes = []AttributeValueType{
	ValueTypeText,
	ValueTypeSmallInteger,
	ValueTypeInteger,
	ValueTypeBigInteger,
	ValueTypeDecimal,
	ValueTypeBoolean,
	ValueTypeDate,
	ValueTypeDateTime,
}

// Code returns the machine code for the value type.
func (t AttributeValueType) Code() string {
	return string(t)
}

// ValueTypeFromCode decodes a machine code into a value type.
// An unknown code decodes to ValueTypeText rather than failing.
func ValueTypeFromCode(code string) AttributeValueType {
	switch AttributeValueType(code) {
	case ValueTypeText, ValueTypeSmallInteger, ValueTypeInteger, ValueTypeBigInteger,
		ValueTypeDecimal, ValueTypeBoolean, ValueTypeDate, ValueTypeDateTime:
		return AttributeValueType(code)
	default:
		return ValueTypeText
	}
}

// Label returns the human-readable name of the value type.
func (t AttributeValueType) Label() string {
	switch t {
	case ValueTypeText:
		return "Text"
	case ValueTypeSmallInteger:
		return "Small Integer"
	case ValueTypeInteger:
		return "Integer"
	case ValueTypeBigInteger:
		return "Big Integer"
	case ValueTypeDecimal:
		return "Decimal"
	case ValueTypeBoolean:
		return "Boolean"
	case ValueTypeDate:
		return "Date"
	case ValueTypeDateTime:
		return "DateTime"
	default:
		return "Text"
	}
}
