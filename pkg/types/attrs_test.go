package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTextAttributeFromDef(t *testing.T) {
	def := AttributeDef{ID: "d1", Name: "Title", ValueType: ValueTypeText, DefaultValue: "untitled"}
	attr := NewTextAttributeFromDef(def)
	assert.Equal(t, "Title", attr.Name)
	assert.Equal(t, "untitled", attr.Value)
	assert.Equal(t, "d1", attr.DefID)
	assert.Empty(t, attr.ID, "instance id is assigned at persist time")
	assert.Empty(t, attr.OwnerID)
}

func TestNewSmallintAttributeFromDef(t *testing.T) {
	tests := []struct {
		name         string
		defaultValue string
		want         int16
	}{
		{"empty default yields zero", "", 0},
		{"whitespace default yields zero", "   ", 0},
		{"valid default is parsed", "42", 42},
		{"negative default is parsed", "-7", -7},
		{"unparsable default yields zero", "abc", 0},
		{"out-of-range default yields zero", "40000", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := AttributeDef{ID: "d2", Name: "Count", ValueType: ValueTypeSmallInteger, DefaultValue: tt.defaultValue}
			attr := NewSmallintAttributeFromDef(def)
			assert.Equal(t, tt.want, attr.Value)
			assert.Equal(t, "Count", attr.Name)
		})
	}
}

func TestNewIntegerAttributeFromDef(t *testing.T) {
	tests := []struct {
		name         string
		defaultValue string
		want         int32
	}{
		{"empty default yields zero", "", 0},
		{"valid default is parsed", "412", 412},
		{"unparsable default yields zero", "abc", 0},
		{"float default yields zero", "3.14", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := AttributeDef{ID: "d3", Name: "Pages", ValueType: ValueTypeInteger, DefaultValue: tt.defaultValue}
			attr := NewIntegerAttributeFromDef(def)
			assert.Equal(t, tt.want, attr.Value)
		})
	}
}

func TestNewBooleanAttributeFromDef(t *testing.T) {
	tests := []struct {
		name         string
		defaultValue string
		want         bool
	}{
		{"empty default yields false", "", false},
		{"true is parsed", "true", true},
		{"one is parsed", "1", true},
		{"false is parsed", "false", false},
		{"unparsable default yields false", "yes please", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := AttributeDef{ID: "d4", Name: "InPrint", ValueType: ValueTypeBoolean, DefaultValue: tt.defaultValue}
			attr := NewBooleanAttributeFromDef(def)
			assert.Equal(t, tt.want, attr.Value)
		})
	}
}
