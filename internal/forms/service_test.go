package forms

import (
	"bytes"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formworks/formfield/internal/detect"
	"github.com/formworks/formfield/internal/document"
	"github.com/formworks/formfield/internal/fill"
	"github.com/formworks/formfield/internal/geometry"
	"github.com/formworks/formfield/internal/schema"
	"github.com/formworks/formfield/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	blobs, err := store.NewFSBlobStore(t.TempDir())
	require.NoError(t, err)

	svc, err := NewService(
		document.NewLoader(0, false),
		detect.NewDetector(false),
		fill.NewEngine(fill.Config{}),
		blobs,
		store.NewMemRecordStore(),
		false,
	)
	require.NoError(t, err)
	return svc
}

// buildLabeledPDF renders a page whose text labels trip the detection
// heuristics.
func buildLabeledPDF(t *testing.T) []byte {
	t.Helper()

	doc := fpdf.New("P", "pt", "", "")
	doc.AddPageFormat("P", fpdf.SizeType{Wd: 612, Ht: 792})
	doc.SetFont("Helvetica", "", 12)
	doc.Text(72, 100, "Email:")
	doc.Text(72, 160, "Signature:")

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func buildBlankPDF(t *testing.T) []byte {
	t.Helper()

	doc := fpdf.New("P", "pt", "", "")
	doc.AddPageFormat("P", fpdf.SizeType{Wd: 612, Ht: 792})

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	loader := document.NewLoader(0, false)
	detector := detect.NewDetector(false)
	engine := fill.NewEngine(fill.Config{})
	blobs, err := store.NewFSBlobStore(t.TempDir())
	require.NoError(t, err)
	records := store.NewMemRecordStore()

	_, err = NewService(nil, detector, engine, blobs, records, false)
	require.Error(t, err)
	_, err = NewService(loader, nil, engine, blobs, records, false)
	require.Error(t, err)
	_, err = NewService(loader, detector, nil, blobs, records, false)
	require.Error(t, err)
	_, err = NewService(loader, detector, engine, nil, records, false)
	require.Error(t, err)
	_, err = NewService(loader, detector, engine, blobs, nil, false)
	require.Error(t, err)

	_, err = NewService(loader, detector, engine, blobs, records, false)
	require.NoError(t, err)
}

func TestCreateForm(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.CreateForm("  Client Intake  ", buildLabeledPDF(t))
	require.NoError(t, err)

	form := result.Form
	assert.NotEmpty(t, form.ID)
	assert.Equal(t, "Client Intake", form.FormName, "names are trimmed")
	assert.True(t, strings.HasPrefix(form.PDFURL, "file://"))
	assert.Equal(t, schema.SchemaPDF, form.Schema.Kind)
	assert.Equal(t, form.PDFURL, form.Schema.PDFURL)
	assert.False(t, result.DetectionEmpty)

	types := make(map[schema.FieldType]int)
	for _, f := range form.Schema.Fields {
		types[f.Type]++
	}
	assert.Equal(t, 1, types[schema.FieldEmail], "fields: %+v", form.Schema.Fields)
	assert.Equal(t, 1, types[schema.FieldSignature])

	stored, err := svc.GetForm(form.ID)
	require.NoError(t, err)
	assert.Equal(t, form, stored)
}

func TestCreateFormValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateForm("   ", buildLabeledPDF(t))
	require.Error(t, err)

	_, err = svc.CreateForm("Intake", []byte("not a pdf"))
	require.Error(t, err)
	var loadErr *document.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestCreateFormDetectionEmpty(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.CreateForm("Blank", buildBlankPDF(t))
	require.NoError(t, err)
	assert.True(t, result.DetectionEmpty)
	assert.Empty(t, result.Form.Schema.Fields)
}

func TestSaveFields(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.CreateForm("Intake", buildLabeledPDF(t))
	require.NoError(t, err)
	formID := created.Form.ID

	fields := []schema.FormField{
		{
			ID: "f1", Name: "fullname", Label: "Full Name",
			Type: schema.FieldText, Page: 1, Required: true,
			Geometry: geometry.PercentRect{X: 10, Y: 10, Width: 30, Height: 5},
		},
	}

	form, err := svc.SaveFields(formID, fields)
	require.NoError(t, err)
	assert.Equal(t, fields, form.Schema.Fields)

	stored, err := svc.GetForm(formID)
	require.NoError(t, err)
	assert.Equal(t, fields, stored.Schema.Fields, "the replace persists")

	t.Run("rejects bad schemas", func(t *testing.T) {
		bad := fields[0]
		bad.ID = ""
		_, err := svc.SaveFields(formID, []schema.FormField{bad})
		require.Error(t, err)

		_, err = svc.SaveFields(formID, []schema.FormField{fields[0], fields[0]})
		require.Error(t, err, "duplicate ids")

		bad = fields[0]
		bad.Type = "dropdown"
		_, err = svc.SaveFields(formID, []schema.FormField{bad})
		require.Error(t, err)

		bad = fields[0]
		bad.Page = 99
		_, err = svc.SaveFields(formID, []schema.FormField{bad})
		require.Error(t, err, "page beyond the document")
	})

	t.Run("unknown form", func(t *testing.T) {
		_, err := svc.SaveFields("ghost", fields)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSubmit(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.CreateForm("Intake", buildLabeledPDF(t))
	require.NoError(t, err)
	formID := created.Form.ID

	_, err = svc.SaveFields(formID, []schema.FormField{
		{
			ID: "f1", Name: "fullname", Label: "Full Name",
			Type: schema.FieldText, Page: 1, Required: true,
			Geometry: geometry.PercentRect{X: 10, Y: 10, Width: 30, Height: 5},
		},
		{
			ID: "f2", Name: "agree", Label: "I Agree",
			Type: schema.FieldCheckbox, Page: 1,
			Geometry: geometry.PercentRect{X: 10, Y: 20, Width: 5, Height: 4},
		},
		{
			ID: "f3", Name: "notes", Label: "Notes",
			Type: schema.FieldTextarea, Page: 1,
			// 3% of 792pt fits two 12pt-lead lines.
			Geometry: geometry.PercentRect{X: 10, Y: 30, Width: 40, Height: 3},
		},
	})
	require.NoError(t, err)

	t.Run("blocks missing required values", func(t *testing.T) {
		_, err := svc.Submit(formID, map[string]schema.FieldValue{})
		require.Error(t, err)

		var validationErr *schema.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, []string{"f1"}, validationErr.Missing)
	})

	t.Run("generates and records", func(t *testing.T) {
		result, err := svc.Submit(formID, map[string]schema.FieldValue{
			"f1": schema.TextValue("Jane Doe"),
			"f2": schema.CheckedValue(true),
			"f3": schema.TextValue("one\ntwo\nthree"),
		})
		require.NoError(t, err)

		sub := result.Submission
		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, formID, sub.FormID)
		assert.NotEmpty(t, sub.GeneratedPDFURL)
		assert.NotEqual(t, created.Form.PDFURL, sub.GeneratedPDFURL)

		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "truncated")

		subs, err := svc.Submissions(formID)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, sub.ID, subs[0].ID)
	})

	t.Run("unknown form", func(t *testing.T) {
		_, err := svc.Submit("ghost", nil)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSubmitOutputParsesBack(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.CreateForm("Intake", buildBlankPDF(t))
	require.NoError(t, err)
	formID := created.Form.ID

	_, err = svc.SaveFields(formID, []schema.FormField{{
		ID: "f1", Name: "fullname", Label: "Full Name",
		Type: schema.FieldText, Page: 1,
		Geometry: geometry.PercentRect{X: 10, Y: 10, Width: 30, Height: 5},
	}})
	require.NoError(t, err)

	result, err := svc.Submit(formID, map[string]schema.FieldValue{
		"f1": schema.TextValue("Jane Doe"),
	})
	require.NoError(t, err)

	blobs := svc.blobs
	generated, err := blobs.Get(result.Submission.GeneratedPDFURL)
	require.NoError(t, err)

	parsed, err := document.NewLoader(0, false).Load(generated)
	require.NoError(t, err)
	require.Equal(t, 1, parsed.PageCount())

	found := false
	for _, run := range parsed.Pages[0].TextRuns {
		if run.Text == "Jane Doe" {
			found = true
			break
		}
	}
	assert.True(t, found, "runs: %+v", parsed.Pages[0].TextRuns)
}

func TestDetectFields(t *testing.T) {
	svc := newTestService(t)

	fields, err := svc.DetectFields(buildLabeledPDF(t))
	require.NoError(t, err)
	assert.Len(t, fields, 2)

	_, err = svc.DetectFields([]byte("junk"))
	require.Error(t, err)
}
