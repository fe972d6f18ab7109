// Package plugin holds the contract between the parser and the host that
// runs it: restrictions, the acceptance call, and the outcome of a run.
package plugin

import (
	"fmt"
	"time"

	"github.com/pevans/techcrunch-parser/document"
)

// RestrictionKind identifies which restriction rejected a document.
type RestrictionKind string

// Restriction kinds.
const (
	FromDate     RestrictionKind = "from_date"
	MaxDocuments RestrictionKind = "maximum_materials"
)

// Restrictions limit which documents a run may accept. Zero values disable a
// restriction.
type Restrictions struct {
	// FromDate is the oldest publication time accepted. It is compared as a
	// naive wall clock, like Document.Published.
	FromDate *time.Time
	// MaxDocuments caps the number of accepted documents.
	MaxDocuments int
}

// OutOfRestrictionError reports a document rejected by a restriction.
type OutOfRestrictionError struct {
	Restriction RestrictionKind
	Link        string
	Published   time.Time
	Bound       string
}

func (e *OutOfRestrictionError) Error() string {
	return fmt.Sprintf("document %s is out of restriction %s (%s)", e.Link, e.Restriction, e.Bound)
}

// Check returns an OutOfRestrictionError if doc may not be accepted after
// accepted documents already were.
func (r Restrictions) Check(doc document.Document, accepted int) error {
	if r.MaxDocuments > 0 && accepted >= r.MaxDocuments {
		return &OutOfRestrictionError{
			Restriction: MaxDocuments,
			Link:        doc.Link,
			Published:   doc.Published,
			Bound:       fmt.Sprintf("maximum %d documents", r.MaxDocuments),
		}
	}

	if r.FromDate != nil {
		from := document.Naive(*r.FromDate)
		if document.Naive(doc.Published).Before(from) {
			return &OutOfRestrictionError{
				Restriction: FromDate,
				Link:        doc.Link,
				Published:   doc.Published,
				Bound:       "from " + from.Format(time.DateTime),
			}
		}
	}

	return nil
}
