// Package editor holds the in-memory state an operator drives while
// placing fields on a form. A session is a plain state machine: callers
// feed it add, update, remove and select calls and read the field list
// back out. It never touches storage or the underlying document, and a
// single session expects a single writer.
package editor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/formworks/formfield/internal/geometry"
	"github.com/formworks/formfield/internal/schema"
)

// ErrFieldNotFound is returned when an operation names a field id the
// session does not hold.
var ErrFieldNotFound = errors.New("field not found")

const (
	defaultRenderWidth  = 612.0
	defaultRenderHeight = 792.0
)

// Session edits one form's field list. Geometry passed in and out is
// interpreted at the viewport active when the call is made, so callers
// must convert pointer deltas to percentages immediately rather than
// accumulate them across scale changes.
type Session struct {
	fields       []schema.FormField
	selected     string
	page         int
	pageCount    int
	renderWidth  float64
	renderHeight float64
}

// NewSession starts an editing session over a copy of fields. The
// session begins on page 1 at a one-point-per-unit letter viewport;
// callers working at another scale set it with SetViewport.
func NewSession(fields []schema.FormField, pageCount int) *Session {
	if pageCount < 1 {
		pageCount = 1
	}
	copied := make([]schema.FormField, len(fields))
	copy(copied, fields)

	return &Session{
		fields:       copied,
		page:         1,
		pageCount:    pageCount,
		renderWidth:  defaultRenderWidth,
		renderHeight: defaultRenderHeight,
	}
}

// SetViewport moves the session to page at the given render size. All
// geometry in subsequent Add and Update calls is interpreted against
// this viewport.
func (s *Session) SetViewport(page int, renderWidth, renderHeight float64) error {
	if page < 1 || page > s.pageCount {
		return fmt.Errorf("editor: page %d out of range 1..%d", page, s.pageCount)
	}
	if renderWidth <= 0 || renderHeight <= 0 {
		return fmt.Errorf("editor: render size %gx%g must be positive", renderWidth, renderHeight)
	}
	s.page = page
	s.renderWidth = renderWidth
	s.renderHeight = renderHeight
	return nil
}

// Add appends a field of the given type at the center of the current
// page, selects it, and returns it.
func (s *Session) Add(fieldType schema.FieldType) (schema.FormField, error) {
	if !fieldType.Valid() {
		return schema.FormField{}, fmt.Errorf("editor: unknown field type %q", fieldType)
	}

	w, h := fieldType.DefaultSize()
	g := geometry.ToPercentRect(geometry.Rect{
		X:      (s.renderWidth - w) / 2,
		Y:      (s.renderHeight - h) / 2,
		Width:  w,
		Height: h,
	}, s.renderWidth, s.renderHeight)
	g = geometry.ClampToPage(g, s.renderWidth, s.renderHeight)

	label := fmt.Sprintf("%s %d", typeLabel(fieldType), s.countOfType(fieldType)+1)
	field := schema.FormField{
		ID:       uuid.NewString(),
		Name:     schema.NameFromLabel(label),
		Label:    label,
		Type:     fieldType,
		Page:     s.page,
		Geometry: g,
	}

	s.fields = append(s.fields, field)
	s.selected = field.ID
	return field, nil
}

// Patch carries the changes of one Update call. Nil members leave the
// corresponding field attribute alone.
type Patch struct {
	Name     *string
	Label    *string
	Type     *schema.FieldType
	Page     *int
	Geometry *geometry.PercentRect
	Required *bool
}

// Update applies patch to the field with the given id and returns the
// updated field. Geometry is clamped against the current viewport, so a
// drag or resize can never push a field off its page or below the
// minimum size.
func (s *Session) Update(id string, patch Patch) (schema.FormField, error) {
	i := s.indexOf(id)
	if i < 0 {
		return schema.FormField{}, fmt.Errorf("editor: update %s: %w", id, ErrFieldNotFound)
	}

	if patch.Type != nil && !patch.Type.Valid() {
		return schema.FormField{}, fmt.Errorf("editor: unknown field type %q", *patch.Type)
	}
	if patch.Page != nil && (*patch.Page < 1 || *patch.Page > s.pageCount) {
		return schema.FormField{}, fmt.Errorf("editor: page %d out of range 1..%d", *patch.Page, s.pageCount)
	}

	field := &s.fields[i]
	if patch.Name != nil {
		field.Name = *patch.Name
	}
	if patch.Label != nil {
		field.Label = *patch.Label
	}
	if patch.Type != nil {
		field.Type = *patch.Type
	}
	if patch.Page != nil {
		field.Page = *patch.Page
	}
	if patch.Geometry != nil {
		field.Geometry = geometry.ClampToPage(*patch.Geometry, s.renderWidth, s.renderHeight)
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	return *field, nil
}

// Remove deletes the field with the given id, clearing the selection if
// it pointed at that field.
func (s *Session) Remove(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("editor: remove %s: %w", id, ErrFieldNotFound)
	}
	s.fields = append(s.fields[:i], s.fields[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	return nil
}

// Select marks the field with the given id as selected. An empty id
// clears the selection.
func (s *Session) Select(id string) error {
	if id == "" {
		s.selected = ""
		return nil
	}
	if s.indexOf(id) < 0 {
		return fmt.Errorf("editor: select %s: %w", id, ErrFieldNotFound)
	}
	s.selected = id
	return nil
}

// Selected returns the currently selected field, if any.
func (s *Session) Selected() (schema.FormField, bool) {
	i := s.indexOf(s.selected)
	if i < 0 {
		return schema.FormField{}, false
	}
	return s.fields[i], true
}

// Fields returns a copy of the session's field list in insertion order.
func (s *Session) Fields() []schema.FormField {
	out := make([]schema.FormField, len(s.fields))
	copy(out, s.fields)
	return out
}

// CurrentPage returns the page the viewport shows.
func (s *Session) CurrentPage() int { return s.page }

// PageCount returns the number of pages in the form's document.
func (s *Session) PageCount() int { return s.pageCount }

func (s *Session) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.fields {
		if s.fields[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) countOfType(fieldType schema.FieldType) int {
	n := 0
	for i := range s.fields {
		if s.fields[i].Type == fieldType {
			n++
		}
	}
	return n
}

func typeLabel(t schema.FieldType) string {
	switch t {
	case schema.FieldText:
		return "Text"
	case schema.FieldEmail:
		return "Email"
	case schema.FieldTel:
		return "Phone"
	case schema.FieldNumber:
		return "Number"
	case schema.FieldDate:
		return "Date"
	case schema.FieldCheckbox:
		return "Checkbox"
	case schema.FieldSignature:
		return "Signature"
	case schema.FieldTextarea:
		return "Text Area"
	default:
		return "Field"
	}
}
