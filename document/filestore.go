package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

// FileStore keeps one JSON file per document in a directory.
type FileStore struct {
	storageDir string
	// links maps each stored link to its file name
	links map[string]string
}

// NewFileStore creates a store in storageDir, indexing any documents already
// there.
func NewFileStore(storageDir string) (*FileStore, error) {
	// Create the storage directory if it doesn't exist (0700: owner-only access)
	if err := os.MkdirAll(storageDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	fs := &FileStore{
		storageDir: storageDir,
		links:      map[string]string{},
	}

	result, err := fs.List(0)
	if err != nil {
		return nil, err
	}
	for _, doc := range result.Documents {
		if doc.ID != nil {
			fs.links[doc.Link] = doc.ID.String() + ".json"
		}
	}

	return fs, nil
}

// Add saves a document to the store.
func (fs *FileStore) Add(doc Document) (Document, error) {
	if _, ok := fs.links[doc.Link]; ok {
		return Document{}, ErrDuplicateLink
	}

	id := uuid.New()
	filename := id.String() + ".json"
	storage := filepath.Join(fs.storageDir, filename)

	doc.ID = &id
	doc.Storage = &storage

	// Marshal the document to JSON
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Document{}, fmt.Errorf("failed to marshal document: %w", err)
	}

	// Write to file (0600: owner-only read/write)
	if err := os.WriteFile(storage, data, 0o600); err != nil {
		return Document{}, fmt.Errorf("failed to write document: %w", err)
	}

	fs.links[doc.Link] = filename
	return doc, nil
}

// Get retrieves a document by its link.
func (fs *FileStore) Get(link string) (*Document, error) {
	filename, ok := fs.links[link]
	if !ok {
		return nil, ErrNotFound
	}

	doc, err := fs.read(filename)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns stored documents. Corrupted or invalid files are collected in
// the result's Errors slice rather than failing the whole listing.
func (fs *FileStore) List(limit int) (*ListResult, error) {
	entries, err := os.ReadDir(fs.storageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	result := &ListResult{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		doc, err := fs.read(entry.Name())
		if err != nil {
			result.Errors = append(result.Errors, ReadError{
				Name: entry.Name(),
				Err:  err,
			})
			continue
		}

		result.Documents = append(result.Documents, *doc)
	}

	sort.SliceStable(result.Documents, func(i, j int) bool {
		return result.Documents[i].Published.After(result.Documents[j].Published)
	})
	if limit > 0 && len(result.Documents) > limit {
		result.Documents = result.Documents[:limit]
	}

	return result, nil
}

// Close is a no-op; every write is flushed immediately.
func (fs *FileStore) Close() error {
	return nil
}

func (fs *FileStore) read(filename string) (*Document, error) {
	data, err := os.ReadFile(filepath.Join(fs.storageDir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	return &doc, nil
}
