package document

import (
	"errors"
	"fmt"
)

// Store errors.
var (
	ErrDuplicateLink = errors.New("document with this link already exists")
	ErrNotFound      = errors.New("document not found")
)

// Store persists accepted documents. Links are unique within a store.
type Store interface {
	// Add persists doc, assigning its ID and Storage, and returns the stored
	// copy. Adding a link that is already stored returns ErrDuplicateLink.
	Add(doc Document) (Document, error)

	// Get returns the document stored under link.
	Get(link string) (*Document, error)

	// List returns stored documents, newest published first. A limit of 0
	// returns everything.
	List(limit int) (*ListResult, error)

	Close() error
}

// ReadError describes a failure to read a single stored document.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

// ListResult contains listed documents and any per-document read errors.
type ListResult struct {
	Documents []Document
	Errors    []ReadError
}
