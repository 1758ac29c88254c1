package schema

import (
	"encoding/json"
	"fmt"
)

// ValueKind discriminates the members of the FieldValue union.
type ValueKind string

const (
	ValueText      ValueKind = "text"
	ValueChecked   ValueKind = "checked"
	ValueSignature ValueKind = "signature"
)

// FieldValue is the tagged union of submittable values: plain text, a
// checkbox state, or signed text with a decorative font key. The zero
// FieldValue means "no value" and is treated like an absent map entry.
type FieldValue struct {
	kind    ValueKind
	text    string
	checked bool
	fontKey string
}

// TextValue wraps a plain text value.
func TextValue(text string) FieldValue {
	return FieldValue{kind: ValueText, text: text}
}

// CheckedValue wraps a checkbox state.
func CheckedValue(checked bool) FieldValue {
	return FieldValue{kind: ValueChecked, checked: checked}
}

// SignatureValue wraps signed text together with the key of the font it
// should render in.
func SignatureValue(text, fontKey string) FieldValue {
	return FieldValue{kind: ValueSignature, text: text, fontKey: fontKey}
}

// Kind returns which member of the union this value is.
func (v FieldValue) Kind() ValueKind { return v.kind }

// IsZero reports whether the value is the "no value" zero state.
func (v FieldValue) IsZero() bool { return v.kind == "" }

// Text returns the text member, if this is a text value.
func (v FieldValue) Text() (string, bool) {
	return v.text, v.kind == ValueText
}

// Checked returns the checkbox member, if this is a checked value.
func (v FieldValue) Checked() (bool, bool) {
	return v.checked, v.kind == ValueChecked
}

// Signature returns the signed text and font key, if this is a signature
// value.
func (v FieldValue) Signature() (text, fontKey string, ok bool) {
	return v.text, v.fontKey, v.kind == ValueSignature
}

// CoerceString renders the value as the single string drawn for
// text-like fields. Checkbox states become "true" or "false".
func (v FieldValue) CoerceString() string {
	switch v.kind {
	case ValueText, ValueSignature:
		return v.text
	case ValueChecked:
		if v.checked {
			return "true"
		}
		return "false"
	}
	return ""
}

// MarshalJSON writes the value as a kind-tagged object.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueText:
		return json.Marshal(struct {
			Kind ValueKind `json:"kind"`
			Text string    `json:"text"`
		}{v.kind, v.text})
	case ValueChecked:
		return json.Marshal(struct {
			Kind    ValueKind `json:"kind"`
			Checked bool      `json:"checked"`
		}{v.kind, v.checked})
	case ValueSignature:
		return json.Marshal(struct {
			Kind ValueKind `json:"kind"`
			Text string    `json:"text"`
			Font string    `json:"font"`
		}{v.kind, v.text, v.fontKey})
	default:
		return nil, fmt.Errorf("cannot marshal field value of kind %q", v.kind)
	}
}

// UnmarshalJSON reads a kind-tagged object back into the union. Unknown
// kinds are an error, never silently coerced.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind    ValueKind `json:"kind"`
		Text    string    `json:"text"`
		Checked bool      `json:"checked"`
		Font    string    `json:"font"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Kind {
	case ValueText:
		*v = TextValue(raw.Text)
	case ValueChecked:
		*v = CheckedValue(raw.Checked)
	case ValueSignature:
		*v = SignatureValue(raw.Text, raw.Font)
	default:
		return fmt.Errorf("unknown field value kind %q", raw.Kind)
	}
	return nil
}
