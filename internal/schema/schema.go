package schema

import (
	"encoding/json"
	"fmt"
)

// SchemaKind discriminates the two persisted schema shapes.
type SchemaKind string

const (
	// SchemaPDF is a field layout over an uploaded PDF document.
	SchemaPDF SchemaKind = "pdf"
	// SchemaManual is a plain field list with no backing document.
	SchemaManual SchemaKind = "manual"
)

// Schema is a form's persisted field layout. The variant is resolved once
// when the schema is decoded; use sites switch on Kind instead of
// re-inspecting raw JSON. The JSON shape of the PDF variant,
//
//	{"type":"pdf","pdfUrl":...,"fields":[...]}
//
// is the compatibility boundary other tooling reads, so it never changes.
type Schema struct {
	Kind   SchemaKind
	PDFURL string
	Fields []FormField
}

// PDFSchema builds the schema of a form backed by an uploaded document.
func PDFSchema(pdfURL string, fields []FormField) Schema {
	return Schema{Kind: SchemaPDF, PDFURL: pdfURL, Fields: fields}
}

// ManualSchema builds the schema of a form with hand-placed fields only.
func ManualSchema(fields []FormField) Schema {
	return Schema{Kind: SchemaManual, Fields: fields}
}

type schemaJSON struct {
	Type   SchemaKind  `json:"type"`
	PDFURL string      `json:"pdfUrl,omitempty"`
	Fields []FormField `json:"fields"`
}

// MarshalJSON writes the persisted wire shape.
func (s Schema) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SchemaPDF, SchemaManual:
	default:
		return nil, fmt.Errorf("cannot marshal schema of kind %q", s.Kind)
	}

	fields := s.Fields
	if fields == nil {
		fields = []FormField{}
	}

	out := schemaJSON{Type: s.Kind, Fields: fields}
	if s.Kind == SchemaPDF {
		out.PDFURL = s.PDFURL
	}
	return json.Marshal(out)
}

// UnmarshalJSON resolves the tagged variant. An unknown type tag is an
// error rather than a fallback.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw schemaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Type {
	case SchemaPDF:
		*s = PDFSchema(raw.PDFURL, raw.Fields)
	case SchemaManual:
		*s = ManualSchema(raw.Fields)
	default:
		return fmt.Errorf("unknown schema type %q", raw.Type)
	}
	if s.Fields == nil {
		s.Fields = []FormField{}
	}
	return nil
}
