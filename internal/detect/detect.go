// Package detect proposes form fields for a loaded document. Pages that
// carry widget annotations are read structurally; pages without any fall
// back to matching label-looking text runs.
package detect

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/formworks/formfield/internal/document"
	"github.com/formworks/formfield/internal/geometry"
	"github.com/formworks/formfield/internal/schema"
)

// requiredFlagBit is bit 2 of the widget field flags, set when the field
// must carry a value.
const requiredFlagBit = 1 << 1

// Detector proposes form fields for loaded documents. Detection is pure:
// the same document always yields the same fields up to their generated
// IDs.
type Detector struct {
	debugMode bool
}

// NewDetector creates a field detector.
func NewDetector(debugMode bool) *Detector {
	return &Detector{debugMode: debugMode}
}

// Detect walks doc page by page. A page with widget annotations yields
// one proposal per widget; a page without any is scanned heuristically.
// Pages are independent: structured results on one page never suppress
// the heuristic on another. Zero proposals is a valid outcome, not an
// error, and the returned slice is never nil.
func (d *Detector) Detect(doc *document.Document) []schema.FormField {
	fields := make([]schema.FormField, 0)
	placeholders := 0

	for i := range doc.Pages {
		page := &doc.Pages[i]
		if len(page.Widgets) > 0 {
			fields = append(fields, d.structuredFields(page, &placeholders)...)
			continue
		}
		fields = append(fields, d.heuristicFields(page)...)
	}

	if d.debugMode {
		log.Printf("detect: proposed %d field(s) across %d page(s)",
			len(fields), len(doc.Pages))
	}
	return fields
}

// structuredFields converts every widget annotation on the page into a
// field proposal. The placeholder counter spans the whole document so
// unnamed widgets number up globally, not per page.
func (d *Detector) structuredFields(page *document.Page, placeholders *int) []schema.FormField {
	fields := make([]schema.FormField, 0, len(page.Widgets))

	for _, w := range page.Widgets {
		label := w.AltText
		if label == "" {
			label = w.Name
		}
		if label == "" {
			*placeholders++
			label = fmt.Sprintf("Field %d", *placeholders)
		}

		name := w.Name
		if name == "" {
			name = schema.NameFromLabel(label)
		}

		g := geometry.FromDocumentRect(w.Rect, page.WidthPt, page.HeightPt)
		g = geometry.ClampToPage(g, page.WidthPt, page.HeightPt)

		fields = append(fields, schema.FormField{
			ID:       uuid.NewString(),
			Name:     name,
			Label:    label,
			Type:     widgetTypeFor(w.FieldType),
			Page:     page.Number,
			Geometry: g,
			Required: w.Flags&requiredFlagBit != 0,
		})
	}
	return fields
}

// widgetTypeFor maps native widget field types onto the schema enum.
// Choice widgets become plain text inputs, as does anything unrecognized.
func widgetTypeFor(native string) schema.FieldType {
	switch native {
	case "Tx":
		return schema.FieldText
	case "Btn":
		return schema.FieldCheckbox
	case "Ch":
		return schema.FieldText
	case "Sig":
		return schema.FieldSignature
	default:
		return schema.FieldText
	}
}
