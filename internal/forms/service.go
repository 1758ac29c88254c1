// Package forms wires the engine's pieces into the operations the tool
// surface exposes: create a form from an uploaded document, replace its
// field schema after an editing session, and submit values to produce a
// filled document.
package forms

import (
	"fmt"
	"log"
	"strings"

	"github.com/formworks/formfield/internal/detect"
	"github.com/formworks/formfield/internal/document"
	"github.com/formworks/formfield/internal/fill"
	"github.com/formworks/formfield/internal/schema"
	"github.com/formworks/formfield/internal/store"
)

// Service coordinates document loading, field detection, filling and
// storage. It owns no state of its own beyond its collaborators, so one
// service may serve concurrent callers.
type Service struct {
	loader    *document.Loader
	detector  *detect.Detector
	engine    *fill.Engine
	blobs     store.BlobStore
	records   store.RecordStore
	debugMode bool
}

// NewService wires a service from its collaborators. All of them are
// required.
func NewService(loader *document.Loader, detector *detect.Detector, engine *fill.Engine,
	blobs store.BlobStore, records store.RecordStore, debugMode bool) (*Service, error) {

	switch {
	case loader == nil:
		return nil, fmt.Errorf("forms: loader is required")
	case detector == nil:
		return nil, fmt.Errorf("forms: detector is required")
	case engine == nil:
		return nil, fmt.Errorf("forms: fill engine is required")
	case blobs == nil:
		return nil, fmt.Errorf("forms: blob store is required")
	case records == nil:
		return nil, fmt.Errorf("forms: record store is required")
	}
	return &Service{
		loader:    loader,
		detector:  detector,
		engine:    engine,
		blobs:     blobs,
		records:   records,
		debugMode: debugMode,
	}, nil
}

// DetectFields loads pdfBytes and returns the detector's proposals
// without persisting anything.
func (s *Service) DetectFields(pdfBytes []byte) ([]schema.FormField, error) {
	doc, err := s.loader.Load(pdfBytes)
	if err != nil {
		return nil, err
	}
	return s.detector.Detect(doc), nil
}

// CreateFormResult is a freshly created form. DetectionEmpty is set when
// the detector proposed nothing, so callers can prompt the operator to
// place fields by hand.
type CreateFormResult struct {
	Form           schema.Form
	DetectionEmpty bool
}

// CreateForm stores the uploaded document, runs detection over it, and
// persists a new form whose schema holds the detected fields.
func (s *Service) CreateForm(formName string, pdfBytes []byte) (*CreateFormResult, error) {
	formName = strings.TrimSpace(formName)
	if formName == "" {
		return nil, fmt.Errorf("forms: form name is required")
	}

	doc, err := s.loader.Load(pdfBytes)
	if err != nil {
		return nil, err
	}

	pdfURL, err := s.blobs.Put(formName+".pdf", pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("forms: storing document: %w", err)
	}

	fields := s.detector.Detect(doc)
	form, err := s.records.InsertForm(schema.Form{
		FormName: formName,
		PDFURL:   pdfURL,
		Schema:   schema.PDFSchema(pdfURL, fields),
	})
	if err != nil {
		return nil, fmt.Errorf("forms: saving form: %w", err)
	}

	if s.debugMode {
		log.Printf("forms: created form %s with %d detected field(s)", form.ID, len(fields))
	}
	return &CreateFormResult{Form: form, DetectionEmpty: len(fields) == 0}, nil
}

// GetForm returns the form with the given id.
func (s *Service) GetForm(id string) (schema.Form, error) {
	return s.records.GetForm(id)
}

// ListForms returns every stored form in creation order.
func (s *Service) ListForms() ([]schema.Form, error) {
	return s.records.ListForms()
}

// SaveFields replaces the form's field schema wholesale. There is no
// field-level patching at this boundary: concurrent editors resolve by
// last write wins.
func (s *Service) SaveFields(formID string, fields []schema.FormField) (schema.Form, error) {
	form, err := s.records.GetForm(formID)
	if err != nil {
		return schema.Form{}, err
	}

	original, err := s.blobs.Get(form.PDFURL)
	if err != nil {
		return schema.Form{}, fmt.Errorf("forms: resolving document: %w", err)
	}
	doc, err := s.loader.Load(original)
	if err != nil {
		return schema.Form{}, err
	}

	if err := validateFields(fields, doc.PageCount()); err != nil {
		return schema.Form{}, err
	}

	form.Schema.Fields = append([]schema.FormField(nil), fields...)
	if err := s.records.UpdateForm(form); err != nil {
		return schema.Form{}, fmt.Errorf("forms: saving fields: %w", err)
	}
	return form, nil
}

// SubmitResult is a stored submission plus any non-fatal rendering
// warnings from generation.
type SubmitResult struct {
	Submission schema.Submission
	Warnings   []string
}

// Submit validates values against the form's required fields, generates
// the filled document, stores it, and records the submission. Each
// submission produces a new blob; earlier output is never overwritten.
func (s *Service) Submit(formID string, values map[string]schema.FieldValue) (*SubmitResult, error) {
	form, err := s.records.GetForm(formID)
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateValues(form.Schema.Fields, values); err != nil {
		return nil, err
	}

	original, err := s.blobs.Get(form.PDFURL)
	if err != nil {
		return nil, fmt.Errorf("forms: resolving document: %w", err)
	}
	doc, err := s.loader.Load(original)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Generate(original, form.Schema.Fields, values, doc.Dims())
	if err != nil {
		return nil, err
	}

	generatedURL, err := s.blobs.Put(formID+"-submission.pdf", result.PDF)
	if err != nil {
		return nil, fmt.Errorf("forms: storing generated document: %w", err)
	}

	sub, err := s.records.InsertSubmission(schema.Submission{
		FormID:          formID,
		Values:          values,
		GeneratedPDFURL: generatedURL,
	})
	if err != nil {
		return nil, fmt.Errorf("forms: recording submission: %w", err)
	}

	if s.debugMode {
		log.Printf("forms: submission %s for form %s (%d warning(s))",
			sub.ID, formID, len(result.Warnings))
	}
	return &SubmitResult{Submission: sub, Warnings: result.Warnings}, nil
}

// Submissions returns the form's submissions in creation order.
func (s *Service) Submissions(formID string) ([]schema.Submission, error) {
	return s.records.ListSubmissions(formID)
}

// validateFields rejects a schema replace that could never fill: ids
// must be present and unique, types known, pages inside the document.
func validateFields(fields []schema.FormField, pageCount int) error {
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.ID == "" {
			return fmt.Errorf("forms: field %d has no id", i)
		}
		if seen[f.ID] {
			return fmt.Errorf("forms: duplicate field id %s", f.ID)
		}
		seen[f.ID] = true

		if !f.Type.Valid() {
			return fmt.Errorf("forms: field %s has unknown type %q", f.ID, f.Type)
		}
		if f.Page < 1 || f.Page > pageCount {
			return fmt.Errorf("forms: field %s is on page %d of a %d-page document",
				f.ID, f.Page, pageCount)
		}
	}
	return nil
}
