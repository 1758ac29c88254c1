// Package schema holds the persisted, technology-neutral form model: the
// field descriptors, the tagged schema variants, the submittable value
// union, and the form and submission aggregates. Everything here is plain
// data; detection, editing, and filling operate on these types without
// the types knowing about them.
package schema

import (
	"strings"

	"github.com/formworks/formfield/internal/geometry"
)

// FieldType enumerates the kinds of fillable fields a form can carry.
type FieldType string

const (
	FieldText      FieldType = "text"
	FieldEmail     FieldType = "email"
	FieldTel       FieldType = "tel"
	FieldNumber    FieldType = "number"
	FieldDate      FieldType = "date"
	FieldCheckbox  FieldType = "checkbox"
	FieldSignature FieldType = "signature"
	FieldTextarea  FieldType = "textarea"
)

// FieldTypes lists every valid field type in a stable order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldText,
		FieldEmail,
		FieldTel,
		FieldNumber,
		FieldDate,
		FieldCheckbox,
		FieldSignature,
		FieldTextarea,
	}
}

// Valid reports whether t is a recognized field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldEmail, FieldTel, FieldNumber, FieldDate,
		FieldCheckbox, FieldSignature, FieldTextarea:
		return true
	}
	return false
}

// DefaultSize returns the width and height a newly placed field of this
// type starts with, in device units at the scale it is placed.
func (t FieldType) DefaultSize() (width, height float64) {
	switch t {
	case FieldCheckbox:
		return 24, 24
	case FieldSignature:
		return 150, 36
	case FieldTextarea:
		return 200, 80
	default:
		return 120, 22
	}
}

// FormField is one fillable region of a form. Fields are persisted as an
// ordered list; ids are unique within a form and stable once created,
// while names may be edited freely after derivation.
type FormField struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Label    string               `json:"label"`
	Type     FieldType            `json:"type"`
	Page     int                  `json:"page"`
	Geometry geometry.PercentRect `json:"geometry"`
	Required bool                 `json:"required"`
}

// NameFromLabel derives a machine key from a display label: lower-cased,
// runs of whitespace collapsed to single underscores.
func NameFromLabel(label string) string {
	lowered := strings.ToLower(strings.TrimSpace(label))
	return strings.Join(strings.Fields(lowered), "_")
}
