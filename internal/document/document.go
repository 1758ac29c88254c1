// Package document parses uploaded PDF bytes into the transient model the
// detector and fill engine consume: page sizes in points, the widget
// annotations of each page, and its positioned text runs. Documents live
// only for the duration of one operation and are never persisted.
package document

import (
	"fmt"

	"github.com/formworks/formfield/internal/geometry"
)

// WidgetAnnotation is a fillable widget found in a page's annotation
// array. FieldType carries the native PDF field type name (Tx, Btn, Ch,
// Sig, or empty); mapping to the internal field types is the detector's
// job.
type WidgetAnnotation struct {
	FieldType string
	Name      string
	AltText   string
	Flags     int
	// Rect is in document space, origin bottom-left.
	Rect geometry.Rect
}

// TextRun is a horizontal run of text, coalesced from the per-fragment
// output of the text extractor. X and Y locate the baseline origin in
// document space.
type TextRun struct {
	Text     string
	X        float64
	Y        float64
	Width    float64
	FontSize float64
}

// Page is one page of a loaded document.
type Page struct {
	Number   int // 1-based
	WidthPt  float64
	HeightPt float64
	Widgets  []WidgetAnnotation
	TextRuns []TextRun
}

// Document is a parsed PDF.
type Document struct {
	Pages []Page
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.Pages) }

// Page returns the 1-based page n.
func (d *Document) Page(n int) (*Page, bool) {
	if n < 1 || n > len(d.Pages) {
		return nil, false
	}
	return &d.Pages[n-1], true
}

// PageDim is the document-space size of one page.
type PageDim struct {
	WidthPt  float64
	HeightPt float64
}

// Dims returns every page's size in page order, the shape the fill
// engine takes.
func (d *Document) Dims() []PageDim {
	dims := make([]PageDim, len(d.Pages))
	for i, p := range d.Pages {
		dims[i] = PageDim{WidthPt: p.WidthPt, HeightPt: p.HeightPt}
	}
	return dims
}

// LoadError reports original document bytes that could not be parsed. It
// is fatal for the operation that raised it: detection and generation
// never produce partial results from an unreadable document.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("document load failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("document load failed: %s", e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }
