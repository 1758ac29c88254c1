// Package fill burns submitted field values into a copy of the original
// document. The engine does no network or storage I/O: the caller hands
// it the original bytes and page dimensions, and gets new bytes back.
package fill

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"github.com/formworks/formfield/internal/document"
	"github.com/formworks/formfield/internal/schema"
)

// Config fixes an Engine's behavior at construction time.
type Config struct {
	// Fonts maps signature font keys to font file paths. Assets load
	// once when the engine is built, never during Generate.
	Fonts map[string]string

	// Compress enables content stream compression on generated output.
	Compress bool

	// CreationDate pins the creation and modification timestamps written
	// into generated output. The zero value means the Unix epoch, which
	// keeps output byte-reproducible across runs.
	CreationDate time.Time

	DebugMode bool
}

// Result is a generated document plus any non-fatal rendering warnings
// accumulated along the way.
type Result struct {
	PDF      []byte
	Warnings []string
}

// Engine renders field values onto documents. All state is fixed at
// construction, so one engine may serve any number of concurrent
// generations.
type Engine struct {
	fonts     map[string][]byte
	compress  bool
	created   time.Time
	debugMode bool
}

// NewEngine builds an engine from cfg, loading every configured
// signature font into memory up front.
func NewEngine(cfg Config) *Engine {
	created := cfg.CreationDate
	if created.IsZero() {
		created = time.Unix(0, 0).UTC()
	}
	return &Engine{
		fonts:     loadFontRegistry(cfg.Fonts, cfg.DebugMode),
		compress:  cfg.Compress,
		created:   created,
		debugMode: cfg.DebugMode,
	}
}

// Generate lays values onto originalBytes and returns the new document
// bytes. Fields with no value, a zero value, or an out-of-range page are
// skipped silently. originalBytes must parse as a document; past that
// check the operation either completes fully or fails with no partial
// output.
func (e *Engine) Generate(originalBytes []byte, fields []schema.FormField,
	values map[string]schema.FieldValue, dims []document.PageDim) (*Result, error) {

	if err := document.Validate(originalBytes); err != nil {
		return nil, err
	}

	out := fpdf.New("P", "pt", "", "")
	out.SetCompression(e.compress)
	out.SetCreationDate(e.created)
	out.SetModificationDate(e.created)

	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(originalBytes))

	state := &renderState{
		engine: e,
		out:    out,
		added:  make(map[string]bool),
		broken: make(map[string]bool),
	}
	byPage := fieldsByPage(fields, values, len(dims))

	var warnings []string
	for i, dim := range dims {
		pageNum := i + 1
		if err := importPage(out, importer, &rs, pageNum, dim); err != nil {
			return nil, err
		}
		for _, field := range byPage[pageNum] {
			if warn := state.drawField(field, values[field.ID], dim); warn != "" {
				warnings = append(warnings, warn)
			}
		}
	}

	if out.Err() {
		return nil, &document.LoadError{Reason: "rebuilding document", Err: out.Error()}
	}
	var buf bytes.Buffer
	if err := out.Output(&buf); err != nil {
		return nil, &document.LoadError{Reason: "serializing document", Err: err}
	}
	return &Result{PDF: buf.Bytes(), Warnings: warnings}, nil
}

// importPage copies page pageNum of the original into the output
// document. The importer panics on malformed input instead of returning
// errors, so the call runs behind a recover fence.
func importPage(out *fpdf.Fpdf, importer *gofpdi.Importer, rs *io.ReadSeeker,
	pageNum int, dim document.PageDim) (err error) {

	defer func() {
		if r := recover(); r != nil {
			err = &document.LoadError{
				Reason: fmt.Sprintf("importing page %d", pageNum),
				Err:    fmt.Errorf("%v", r),
			}
		}
	}()

	out.AddPageFormat("P", fpdf.SizeType{Wd: dim.WidthPt, Ht: dim.HeightPt})
	tpl := importer.ImportPageFromStream(out, rs, pageNum, "/MediaBox")
	importer.UseImportedTemplate(out, tpl, 0, 0, dim.WidthPt, dim.HeightPt)

	if out.Err() {
		return &document.LoadError{
			Reason: fmt.Sprintf("importing page %d", pageNum),
			Err:    out.Error(),
		}
	}
	return nil
}

// fieldsByPage groups the fields that will actually draw, keyed by page
// and keeping the field-list order within each page. Fields without a
// usable value or with a page outside the document are dropped here.
func fieldsByPage(fields []schema.FormField, values map[string]schema.FieldValue,
	pageCount int) map[int][]schema.FormField {

	byPage := make(map[int][]schema.FormField)
	for _, f := range fields {
		value, ok := values[f.ID]
		if !ok || value.IsZero() {
			continue
		}
		if f.Page < 1 || f.Page > pageCount {
			continue
		}
		byPage[f.Page] = append(byPage[f.Page], f)
	}
	return byPage
}
