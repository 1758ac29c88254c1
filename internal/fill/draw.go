package fill

import (
	"fmt"
	"log"
	"math"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/formworks/formfield/internal/document"
	"github.com/formworks/formfield/internal/geometry"
	"github.com/formworks/formfield/internal/schema"
)

const (
	textInset        = 2.0
	checkboxMargin   = 2.0
	signatureMaxSize = 24.0
	textMaxSize      = 12.0
	textareaFontSize = 10.0
	textareaLeading  = 12.0

	// ascentRatio positions a baseline inside a box of the font size.
	ascentRatio = 0.718
)

// signatureColor tints signature text midnight blue so a signed field
// reads differently from plain filled text.
var signatureColor = [3]int{25, 25, 112}

// renderState is the per-generation drawing state: the document under
// construction plus which signature fonts it has registered or given up
// on so far. Fonts register lazily, so unused ones never reach the
// output.
type renderState struct {
	engine *Engine
	out    *fpdf.Fpdf
	added  map[string]bool
	broken map[string]bool
}

// drawField renders one field value into its rectangle on the current
// page. The output document uses points with a top-left origin, which is
// exactly device space at a one-point-per-unit scale. A non-empty return
// is a warning about degraded rendering.
func (rs *renderState) drawField(field schema.FormField, value schema.FieldValue,
	dim document.PageDim) string {

	rect := geometry.ToDeviceRect(field.Geometry, dim.WidthPt, dim.HeightPt)

	switch field.Type {
	case schema.FieldCheckbox:
		rs.drawCheckbox(rect, value)
	case schema.FieldSignature:
		rs.drawSignature(rect, value)
	case schema.FieldTextarea:
		return rs.drawTextarea(field, rect, value)
	default:
		rs.drawTextLine(rect, value)
	}
	return ""
}

// drawCheckbox draws a checkmark glyph when the value is checked. An
// unchecked or non-boolean value draws nothing at all, leaving the
// region identical to a missing value.
func (rs *renderState) drawCheckbox(rect geometry.Rect, value schema.FieldValue) {
	checked, ok := value.Checked()
	if !ok || !checked {
		return
	}

	size := math.Min(rect.Width, rect.Height) - checkboxMargin
	if size <= 0 {
		return
	}

	// Glyph "3" is the check mark in the ZapfDingbats encoding.
	rs.out.SetFont("ZapfDingbats", "", size)
	rs.out.SetTextColor(0, 0, 0)
	rs.out.Text(rect.X+checkboxMargin, rect.Y+rect.Height-checkboxMargin, "3")
}

// drawSignature renders signature text in its decorative font, tinted
// with the signature color. Unknown or failed font keys fall back to
// oblique Helvetica.
func (rs *renderState) drawSignature(rect geometry.Rect, value schema.FieldValue) {
	text, fontKey, ok := value.Signature()
	if !ok || text == "" {
		return
	}

	size := math.Min(rect.Height*0.7, signatureMaxSize)
	embedded := rs.setSignatureFont(fontKey, size)
	if !embedded {
		text = latin1(text)
	}

	rs.out.SetTextColor(signatureColor[0], signatureColor[1], signatureColor[2])
	baseline := rect.Y + (rect.Height-size)/2 + size*ascentRatio
	rs.out.Text(rect.X+textInset, baseline, text)
	rs.out.SetTextColor(0, 0, 0)
}

// setSignatureFont activates the embedded font for key, registering it
// with the output document on first use. It reports whether an embedded
// font is active; false means the fallback core font was selected and
// the text must be re-encoded to Latin-1.
func (rs *renderState) setSignatureFont(key string, size float64) bool {
	data, ok := rs.engine.fonts[key]
	if !ok || rs.broken[key] {
		if rs.engine.debugMode && key != "" && !rs.broken[key] {
			log.Printf("fill: unknown signature font %q, using fallback", key)
		}
		rs.out.SetFont("Helvetica", "I", size)
		return false
	}

	if !rs.added[key] {
		rs.out.AddUTF8FontFromBytes(key, "", data)
		if rs.out.Err() {
			log.Printf("fill: registering signature font %q: %v, using fallback",
				key, rs.out.Error())
			rs.out.ClearError()
			rs.broken[key] = true
			rs.out.SetFont("Helvetica", "I", size)
			return false
		}
		rs.added[key] = true
	}

	rs.out.SetFont(key, "", size)
	return true
}

// drawTextLine renders a single-line value, vertically centered with a
// small left inset.
func (rs *renderState) drawTextLine(rect geometry.Rect, value schema.FieldValue) {
	text := value.CoerceString()
	if text == "" {
		return
	}

	size := math.Min(rect.Height*0.7, textMaxSize)
	rs.out.SetFont("Helvetica", "", size)
	rs.out.SetTextColor(0, 0, 0)

	baseline := rect.Y + (rect.Height-size)/2 + size*ascentRatio
	rs.out.Text(rect.X+textInset, baseline, latin1(text))
}

// drawTextarea renders multi-line text top-down at a fixed size and
// leading, dropping lines that would cross the rectangle's bottom edge.
// Truncation is reported as a warning, not an error.
func (rs *renderState) drawTextarea(field schema.FormField, rect geometry.Rect,
	value schema.FieldValue) string {

	text := value.CoerceString()
	if text == "" {
		return ""
	}

	rs.out.SetFont("Helvetica", "", textareaFontSize)
	rs.out.SetTextColor(0, 0, 0)

	lines := strings.Split(text, "\n")
	drawn := 0
	for i, line := range lines {
		lineTop := rect.Y + float64(i)*textareaLeading
		if lineTop+textareaFontSize > rect.Y+rect.Height {
			break
		}
		rs.out.Text(rect.X+textInset, lineTop+textareaFontSize*ascentRatio, latin1(line))
		drawn++
	}

	if drawn < len(lines) {
		return fmt.Sprintf("field %s: textarea content truncated, drew %d of %d lines",
			field.ID, drawn, len(lines))
	}
	return ""
}

// latin1 re-encodes s for the Latin-1 core fonts, keeping the raw string
// when a character has no mapping.
func latin1(s string) string {
	encoded, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return s
	}
	return encoded
}
