package document

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWidgetPDF assembles a minimal two-page AcroForm document by hand:
// page 1 carries a merged text widget and inherits its MediaBox from the
// page tree root, page 2 carries a checkbox widget whose field entries
// live on a parent field dictionary. Object offsets are computed from the
// buffer, so the xref table is correct by construction.
func buildWidgetPDF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")
	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R 6 0 R] >> >>\nendobj\n")
	writeObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R 5 0 R] /Count 2 /MediaBox [0 0 612 792] >>\nendobj\n")
	writeObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /Annots [4 0 R] >>\nendobj\n")
	writeObj("4 0 obj\n<< /Type /Annot /Subtype /Widget /FT /Tx /T (fullname) /TU (Full Name) " +
		"/Ff 2 /Rect [100 600 300 630] >>\nendobj\n")
	writeObj("5 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 600 800] /Annots [7 0 R] >>\nendobj\n")
	writeObj("6 0 obj\n<< /FT /Btn /T (agree) /TU (I Agree) /Kids [7 0 R] >>\nendobj\n")
	writeObj("7 0 obj\n<< /Type /Annot /Subtype /Widget /Parent 6 0 R /Rect [50 50 74 74] >>\nendobj\n")

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefOffset)

	return buf.Bytes()
}

// buildTextPDF renders a small document with label-style text at known
// positions.
func buildTextPDF(t *testing.T) []byte {
	t.Helper()

	doc := fpdf.New("P", "pt", "", "")
	doc.AddPageFormat("P", fpdf.SizeType{Wd: 612, Ht: 792})
	doc.SetFont("Helvetica", "", 12)
	doc.Text(72, 100, "Email:")
	doc.Text(72, 140, "Signature:")

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestLoadWidgets(t *testing.T) {
	loader := NewLoader(0, false)
	doc, err := loader.Load(buildWidgetPDF(t))
	require.NoError(t, err)
	require.Equal(t, 2, doc.PageCount())

	page1, ok := doc.Page(1)
	require.True(t, ok)
	assert.InDelta(t, 612.0, page1.WidthPt, 1e-9, "page 1 inherits the root MediaBox")
	assert.InDelta(t, 792.0, page1.HeightPt, 1e-9)
	require.Len(t, page1.Widgets, 1)

	w := page1.Widgets[0]
	assert.Equal(t, "Tx", w.FieldType)
	assert.Equal(t, "fullname", w.Name)
	assert.Equal(t, "Full Name", w.AltText)
	assert.Equal(t, 2, w.Flags)
	assert.InDelta(t, 100.0, w.Rect.X, 1e-9)
	assert.InDelta(t, 600.0, w.Rect.Y, 1e-9)
	assert.InDelta(t, 200.0, w.Rect.Width, 1e-9)
	assert.InDelta(t, 30.0, w.Rect.Height, 1e-9)

	page2, ok := doc.Page(2)
	require.True(t, ok)
	assert.InDelta(t, 600.0, page2.WidthPt, 1e-9, "page 2 overrides the inherited MediaBox")
	assert.InDelta(t, 800.0, page2.HeightPt, 1e-9)
	require.Len(t, page2.Widgets, 1)

	kid := page2.Widgets[0]
	assert.Equal(t, "Btn", kid.FieldType, "field type resolves through the Parent chain")
	assert.Equal(t, "agree", kid.Name)
	assert.Equal(t, "I Agree", kid.AltText)
}

func TestLoadTextRuns(t *testing.T) {
	loader := NewLoader(0, false)
	doc, err := loader.Load(buildTextPDF(t))
	require.NoError(t, err)
	require.Equal(t, 1, doc.PageCount())

	page := doc.Pages[0]
	assert.Empty(t, page.Widgets)
	require.NotEmpty(t, page.TextRuns)

	var email *TextRun
	for i := range page.TextRuns {
		if bytes.Contains([]byte(page.TextRuns[i].Text), []byte("Email")) {
			email = &page.TextRuns[i]
			break
		}
	}
	require.NotNil(t, email, "runs: %+v", page.TextRuns)

	// Drawn at device y=100 on a 792pt page, so the document-space
	// baseline sits near 692.
	assert.InDelta(t, 692.0, email.Y, 2.0)
	assert.InDelta(t, 72.0, email.X, 2.0)
	assert.Greater(t, email.Width, 0.0)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		loader *Loader
		data   []byte
	}{
		{"empty input", NewLoader(0, false), nil},
		{"not a pdf", NewLoader(0, false), []byte("definitely not a pdf")},
		{"over size limit", NewLoader(8, false), buildWidgetPDF(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.loader.Load(tt.data)
			require.Error(t, err)

			var loadErr *LoadError
			assert.ErrorAs(t, err, &loadErr)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(buildWidgetPDF(t)))

	err := Validate([]byte("nope"))
	require.Error(t, err)
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestDocumentAccessors(t *testing.T) {
	doc := &Document{Pages: []Page{
		{Number: 1, WidthPt: 612, HeightPt: 792},
		{Number: 2, WidthPt: 600, HeightPt: 800},
	}}

	assert.Equal(t, 2, doc.PageCount())

	_, ok := doc.Page(0)
	assert.False(t, ok)
	_, ok = doc.Page(3)
	assert.False(t, ok)

	p, ok := doc.Page(2)
	require.True(t, ok)
	assert.Equal(t, 2, p.Number)

	dims := doc.Dims()
	require.Len(t, dims, 2)
	assert.Equal(t, PageDim{WidthPt: 600, HeightPt: 800}, dims[1])
}

func TestCoalesceRunsMergesAdjacentFragments(t *testing.T) {
	texts := []pdf.Text{
		{S: "Em", X: 72, Y: 692, W: 14, FontSize: 12},
		{S: "ail:", X: 86, Y: 692, W: 18, FontSize: 12},
		{S: "Name:", X: 72, Y: 652, W: 36, FontSize: 12},
	}

	runs := coalesceRuns(texts)
	require.Len(t, runs, 2)

	assert.Equal(t, "Email:", runs[0].Text)
	assert.InDelta(t, 72.0, runs[0].X, 1e-9)
	assert.InDelta(t, 32.0, runs[0].Width, 1e-9)
	assert.Equal(t, "Name:", runs[1].Text)
}

func TestCoalesceRunsKeepsSeparateBaselines(t *testing.T) {
	texts := []pdf.Text{
		{S: "Email", X: 72, Y: 692, W: 30, FontSize: 12},
		{S: "Email", X: 72, Y: 600, W: 30, FontSize: 12},
	}

	runs := coalesceRuns(texts)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].Y, runs[1].Y, "runs come out top of page first")
}
