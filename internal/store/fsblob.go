package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const blobScheme = "file://"

// FSBlobStore stores blobs as files under a root directory and addresses
// them with file:// URLs.
type FSBlobStore struct {
	root      string
	validator *PathValidator
}

// NewFSBlobStore creates the root directory if needed and returns a
// store over it.
func NewFSBlobStore(root string) (*FSBlobStore, error) {
	if root == "" {
		return nil, fmt.Errorf("store: root directory cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("store: resolving root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("store: creating root: %w", err)
	}

	validator, err := NewPathValidator(abs)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &FSBlobStore{root: abs, validator: validator}, nil
}

// Put writes data to a fresh file under the root and returns its URL.
// The stored filename carries a random prefix, so equal names never
// collide and re-submissions never overwrite earlier output.
func (s *FSBlobStore) Put(name string, data []byte) (string, error) {
	filename := uuid.NewString() + "-" + sanitizeName(name)
	path := filepath.Join(s.root, filename)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("store: writing blob: %w", err)
	}
	return blobScheme + path, nil
}

// Get reads back a blob by the URL Put returned. URLs pointing outside
// the root are rejected.
func (s *FSBlobStore) Get(url string) ([]byte, error) {
	if !strings.HasPrefix(url, blobScheme) {
		return nil, fmt.Errorf("store: unsupported blob url %q", url)
	}
	path := strings.TrimPrefix(url, blobScheme)
	if err := s.validator.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store: blob %q: %w", url, ErrNotFound)
		}
		return nil, fmt.Errorf("store: reading blob: %w", err)
	}
	return data, nil
}

// Root returns the store's absolute root directory.
func (s *FSBlobStore) Root() string { return s.root }

// sanitizeName reduces a client-supplied name to a safe filename: path
// components other than the base are dropped and anything outside
// letters, digits, dots, dashes and underscores becomes an underscore.
func sanitizeName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	if out == "" || strings.Trim(out, "._") == "" {
		out = "blob"
	}
	if len(out) > 64 {
		out = out[:64]
	}
	return out
}
