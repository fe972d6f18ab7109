package document

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists documents in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	dsn string
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, dsn: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the documents table if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		abstract TEXT,
		text TEXT,
		link TEXT NOT NULL UNIQUE,
		other TEXT,
		published TEXT NOT NULL,
		loaded TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS documents_published ON documents (published);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Add inserts a document.
func (s *SQLiteStore) Add(doc Document) (Document, error) {
	id := uuid.New()
	storage := fmt.Sprintf("sqlite://%s#%s", s.dsn, id.String())
	doc.ID = &id
	doc.Storage = &storage

	var otherJSON *string
	if len(doc.Other) > 0 {
		data, err := json.Marshal(doc.Other)
		if err != nil {
			return Document{}, fmt.Errorf("failed to marshal other: %w", err)
		}
		str := string(data)
		otherJSON = &str
	}

	query := `
		INSERT INTO documents (id, title, abstract, text, link, other, published, loaded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		id.String(),
		doc.Title,
		doc.Abstract,
		doc.Text,
		doc.Link,
		otherJSON,
		formatTime(doc.Published),
		formatTime(doc.Loaded),
	)
	if err != nil {
		// Check for duplicate link constraint violation
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return Document{}, ErrDuplicateLink
		}
		return Document{}, fmt.Errorf("failed to insert document: %w", err)
	}

	return doc, nil
}

// Get retrieves a document by its link.
func (s *SQLiteStore) Get(link string) (*Document, error) {
	query := `
		SELECT id, title, abstract, text, link, other, published, loaded
		FROM documents
		WHERE link = ?
	`

	doc, err := s.scan(s.db.QueryRow(query, link))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return doc, nil
}

// List returns documents, newest published first.
func (s *SQLiteStore) List(limit int) (*ListResult, error) {
	query := `
		SELECT id, title, abstract, text, link, other, published, loaded
		FROM documents
		ORDER BY published DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	result := &ListResult{}
	for rows.Next() {
		doc, err := s.scan(rows)
		if err != nil {
			result.Errors = append(result.Errors, ReadError{Name: "row", Err: err})
			continue
		}
		result.Documents = append(result.Documents, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scan parses one row into a Document. Shared by Get and List.
func (s *SQLiteStore) scan(row scanner) (*Document, error) {
	var idStr, title, link, publishedStr, loadedStr string
	var abstract, text, otherJSON sql.NullString

	if err := row.Scan(&idStr, &title, &abstract, &text, &link, &otherJSON, &publishedStr, &loadedStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document ID: %w", err)
	}
	storage := fmt.Sprintf("sqlite://%s#%s", s.dsn, idStr)

	doc := &Document{
		ID:        &id,
		Title:     title,
		Link:      link,
		Storage:   &storage,
		Published: parseTime(publishedStr),
		Loaded:    parseTime(loadedStr),
	}

	// Parse optional strings
	if abstract.Valid {
		doc.Abstract = &abstract.String
	}
	if text.Valid {
		doc.Text = &text.String
	}
	if otherJSON.Valid {
		if err := json.Unmarshal([]byte(otherJSON.String), &doc.Other); err != nil {
			return nil, fmt.Errorf("failed to unmarshal other: %w", err)
		}
	}

	return doc, nil
}

// timeLayout is fixed width so that text order in SQL matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Helper functions for time formatting
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	// RFC3339Nano also reads the fixed width layout and older rows
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}
