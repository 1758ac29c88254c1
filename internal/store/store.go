// Package store is the engine's storage boundary: blob storage for
// original and generated documents, record storage for forms and their
// submissions, and the path validation the file-backed pieces share.
package store

import (
	"errors"

	"github.com/formworks/formfield/internal/schema"
)

// ErrNotFound is returned when a blob or record does not exist. Callers
// match it with errors.Is.
var ErrNotFound = errors.New("not found")

// BlobStore persists opaque byte blobs addressed by URL.
type BlobStore interface {
	// Put stores data under a fresh URL derived from name and returns
	// that URL.
	Put(name string, data []byte) (string, error)
	// Get resolves a URL previously returned by Put back to its bytes.
	Get(url string) ([]byte, error)
}

// RecordStore persists forms and submissions. Implementations assign
// storage ids on insert when the record carries none, and always hand
// back defensive copies.
type RecordStore interface {
	InsertForm(form schema.Form) (schema.Form, error)
	UpdateForm(form schema.Form) error
	GetForm(id string) (schema.Form, error)
	ListForms() ([]schema.Form, error)
	InsertSubmission(sub schema.Submission) (schema.Submission, error)
	ListSubmissions(formID string) ([]schema.Submission, error)
}
