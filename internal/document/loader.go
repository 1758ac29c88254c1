package document

import (
	"bytes"
	"fmt"
	"log"
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/formworks/formfield/internal/geometry"
)

const (
	// US Letter, used when a page carries no resolvable MediaBox.
	defaultPageWidthPt  = 612.0
	defaultPageHeightPt = 792.0

	// Page trees and field hierarchies deeper than this are treated as
	// malformed rather than walked forever.
	maxTreeDepth = 50
	maxParentHop = 8
)

// Loader parses uploaded PDF bytes into Documents.
type Loader struct {
	maxFileSize int64
	debugMode   bool
}

// NewLoader creates a loader enforcing the given byte-size limit; a limit
// of zero disables the check.
func NewLoader(maxFileSize int64, debugMode bool) *Loader {
	return &Loader{maxFileSize: maxFileSize, debugMode: debugMode}
}

// Load parses data into a Document. Whenever the bytes cannot be read as
// a PDF the returned error is a *LoadError. A failure to extract text
// runs is not fatal: the affected pages simply carry none.
func (l *Loader) Load(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, &LoadError{Reason: "empty input"}
	}
	if l.maxFileSize > 0 && int64(len(data)) > l.maxFileSize {
		return nil, &LoadError{
			Reason: fmt.Sprintf("document is %d bytes, limit is %d", len(data), l.maxFileSize),
		}
	}

	ctx, err := readContext(data)
	if err != nil {
		return nil, &LoadError{Reason: "unreadable document", Err: err}
	}

	pages, err := l.collectPages(ctx)
	if err != nil {
		return nil, &LoadError{Reason: "malformed page tree", Err: err}
	}

	doc := &Document{Pages: pages}
	l.attachTextRuns(doc, data)

	if l.debugMode {
		widgets := 0
		for _, p := range doc.Pages {
			widgets += len(p.Widgets)
		}
		log.Printf("document: loaded %d page(s), %d widget(s)", len(doc.Pages), widgets)
	}
	return doc, nil
}

// Validate reports whether data parses as a PDF with at least one page.
// The error, when non-nil, is a *LoadError.
func Validate(data []byte) error {
	if len(data) == 0 {
		return &LoadError{Reason: "empty input"}
	}
	if _, err := readContext(data); err != nil {
		return &LoadError{Reason: "unreadable document", Err: err}
	}
	return nil
}

func readContext(data []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return ctx, nil
}

func (l *Loader) collectPages(ctx *model.Context) ([]Page, error) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	pagesObj, found := rootDict.Find("Pages")
	if !found {
		return nil, fmt.Errorf("catalog has no page tree")
	}

	var pages []Page
	if err := l.walkPageTree(ctx, pagesObj, nil, &pages, 0); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("document has no pages")
	}
	return pages, nil
}

// walkPageTree descends the page tree depth-first, carrying the MediaBox
// inherited from ancestor nodes. Leaves become Pages in document order.
func (l *Loader) walkPageTree(
	ctx *model.Context,
	nodeObj types.Object,
	inheritedBox *geometry.Rect,
	pages *[]Page,
	depth int,
) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("page tree exceeds depth %d", maxTreeDepth)
	}

	nodeDict, err := ctx.DereferenceDict(nodeObj)
	if err != nil {
		return fmt.Errorf("failed to dereference page tree node: %w", err)
	}
	if nodeDict == nil {
		return nil
	}

	mediaBox := inheritedBox
	if mbObj, found := nodeDict.Find("MediaBox"); found {
		if mb, err := parseRect(ctx, mbObj); err == nil {
			mediaBox = &mb
		} else if l.debugMode {
			log.Printf("document: ignoring unreadable MediaBox: %v", err)
		}
	}

	if kidsObj, found := nodeDict.Find("Kids"); found {
		kids, err := ctx.DereferenceArray(kidsObj)
		if err != nil {
			return fmt.Errorf("failed to dereference Kids array: %w", err)
		}
		for _, kid := range kids {
			if err := l.walkPageTree(ctx, kid, mediaBox, pages, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	page := Page{
		Number:   len(*pages) + 1,
		WidthPt:  defaultPageWidthPt,
		HeightPt: defaultPageHeightPt,
	}
	if mediaBox != nil && mediaBox.Width > 0 && mediaBox.Height > 0 {
		page.WidthPt = mediaBox.Width
		page.HeightPt = mediaBox.Height
	}
	page.Widgets = l.collectWidgets(ctx, nodeDict)

	*pages = append(*pages, page)
	return nil
}

// collectWidgets gathers the widget annotations of one page. Annotations
// that cannot be parsed are skipped, not fatal.
func (l *Loader) collectWidgets(ctx *model.Context, pageDict types.Dict) []WidgetAnnotation {
	annotsObj, found := pageDict.Find("Annots")
	if !found {
		return nil
	}

	annots, err := ctx.DereferenceArray(annotsObj)
	if err != nil {
		if l.debugMode {
			log.Printf("document: skipping unreadable Annots array: %v", err)
		}
		return nil
	}

	var widgets []WidgetAnnotation
	for _, annotObj := range annots {
		annotDict, err := ctx.DereferenceDict(annotObj)
		if err != nil || annotDict == nil {
			continue
		}
		if dereferenceNameEntry(ctx, annotDict, "Subtype") != "Widget" {
			continue
		}

		widget, err := parseWidget(ctx, annotDict)
		if err != nil {
			if l.debugMode {
				log.Printf("document: skipping widget: %v", err)
			}
			continue
		}
		widgets = append(widgets, widget)
	}
	return widgets
}

// parseWidget reads one widget annotation. FT, T, TU, and Ff may live on
// the widget itself or on an ancestor field dictionary when the widget is
// a kid of a field, so missing entries are resolved up the Parent chain.
func parseWidget(ctx *model.Context, annotDict types.Dict) (WidgetAnnotation, error) {
	rectObj, found := annotDict.Find("Rect")
	if !found {
		return WidgetAnnotation{}, fmt.Errorf("widget has no Rect")
	}
	rect, err := parseRect(ctx, rectObj)
	if err != nil {
		return WidgetAnnotation{}, fmt.Errorf("widget Rect: %w", err)
	}

	widget := WidgetAnnotation{Rect: rect}
	dict := annotDict
	for hop := 0; dict != nil && hop < maxParentHop; hop++ {
		if widget.FieldType == "" {
			widget.FieldType = dereferenceNameEntry(ctx, dict, "FT")
		}
		if widget.Name == "" {
			widget.Name = dereferenceStringEntry(ctx, dict, "T")
		}
		if widget.AltText == "" {
			widget.AltText = dereferenceStringEntry(ctx, dict, "TU")
		}
		if widget.Flags == 0 {
			if flagsObj, found := dict.Find("Ff"); found {
				if flags, err := ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
					widget.Flags = int(*flags)
				}
			}
		}

		parentObj, found := dict.Find("Parent")
		if !found {
			break
		}
		parent, err := ctx.DereferenceDict(parentObj)
		if err != nil || parent == nil {
			break
		}
		dict = parent
	}
	return widget, nil
}

// parseRect reads a 4-element rectangle array, normalizing the corner
// order so width and height come out positive.
func parseRect(ctx *model.Context, rectObj types.Object) (geometry.Rect, error) {
	rectArray, err := ctx.DereferenceArray(rectObj)
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("failed to dereference rectangle: %w", err)
	}
	if len(rectArray) != 4 {
		return geometry.Rect{}, fmt.Errorf("rectangle has %d elements, want 4", len(rectArray))
	}

	coords := make([]float64, 4)
	for i, coord := range rectArray {
		f, err := ctx.DereferenceNumber(coord)
		if err != nil {
			return geometry.Rect{}, fmt.Errorf("rectangle coordinate %d: %w", i, err)
		}
		coords[i] = f
	}

	llx := math.Min(coords[0], coords[2])
	lly := math.Min(coords[1], coords[3])
	urx := math.Max(coords[0], coords[2])
	ury := math.Max(coords[1], coords[3])
	return geometry.Rect{X: llx, Y: lly, Width: urx - llx, Height: ury - lly}, nil
}

func dereferenceNameEntry(ctx *model.Context, dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	name, err := ctx.DereferenceName(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return name
}

func dereferenceStringEntry(ctx *model.Context, dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	s, err := ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return s
}
