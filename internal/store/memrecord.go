package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/formworks/formfield/internal/schema"
)

// MemRecordStore keeps forms and submissions in memory. It backs stdio
// deployments and tests. Every call copies records on the way in and
// out, so callers never share slices or maps with the store.
type MemRecordStore struct {
	mu          sync.RWMutex
	forms       map[string]schema.Form
	formOrder   []string
	submissions map[string][]schema.Submission
}

// NewMemRecordStore creates an empty in-memory record store.
func NewMemRecordStore() *MemRecordStore {
	return &MemRecordStore{
		forms:       make(map[string]schema.Form),
		submissions: make(map[string][]schema.Submission),
	}
}

// InsertForm stores a new form, assigning an id when form carries none,
// and returns the stored copy.
func (s *MemRecordStore) InsertForm(form schema.Form) (schema.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	if _, exists := s.forms[form.ID]; exists {
		return schema.Form{}, fmt.Errorf("store: form %s already exists", form.ID)
	}

	s.forms[form.ID] = copyForm(form)
	s.formOrder = append(s.formOrder, form.ID)
	return copyForm(form), nil
}

// UpdateForm replaces the stored form with the same id.
func (s *MemRecordStore) UpdateForm(form schema.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.forms[form.ID]; !exists {
		return fmt.Errorf("store: form %s: %w", form.ID, ErrNotFound)
	}
	s.forms[form.ID] = copyForm(form)
	return nil
}

// GetForm returns a copy of the form with the given id.
func (s *MemRecordStore) GetForm(id string) (schema.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	form, exists := s.forms[id]
	if !exists {
		return schema.Form{}, fmt.Errorf("store: form %s: %w", id, ErrNotFound)
	}
	return copyForm(form), nil
}

// ListForms returns all forms in insertion order.
func (s *MemRecordStore) ListForms() ([]schema.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]schema.Form, 0, len(s.formOrder))
	for _, id := range s.formOrder {
		out = append(out, copyForm(s.forms[id]))
	}
	return out, nil
}

// InsertSubmission stores a submission against an existing form,
// assigning an id when it carries none, and returns the stored copy.
func (s *MemRecordStore) InsertSubmission(sub schema.Submission) (schema.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.forms[sub.FormID]; !exists {
		return schema.Submission{}, fmt.Errorf("store: form %s: %w", sub.FormID, ErrNotFound)
	}
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}

	s.submissions[sub.FormID] = append(s.submissions[sub.FormID], copySubmission(sub))
	return copySubmission(sub), nil
}

// ListSubmissions returns the form's submissions in insertion order.
func (s *MemRecordStore) ListSubmissions(formID string) ([]schema.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.forms[formID]; !exists {
		return nil, fmt.Errorf("store: form %s: %w", formID, ErrNotFound)
	}

	subs := s.submissions[formID]
	out := make([]schema.Submission, 0, len(subs))
	for _, sub := range subs {
		out = append(out, copySubmission(sub))
	}
	return out, nil
}

func copyForm(f schema.Form) schema.Form {
	out := f
	if f.Schema.Fields != nil {
		out.Schema.Fields = append([]schema.FormField(nil), f.Schema.Fields...)
	}
	return out
}

func copySubmission(sub schema.Submission) schema.Submission {
	out := sub
	if sub.Values != nil {
		out.Values = make(map[string]schema.FieldValue, len(sub.Values))
		for k, v := range sub.Values {
			out.Values[k] = v
		}
	}
	return out
}
