package plugin

import (
	"context"
	"errors"
	"fmt"

	"github.com/pevans/techcrunch-parser/document"
	"github.com/pevans/techcrunch-parser/logger"
)

// Acceptor is the host's acceptance call. It returns an
// *OutOfRestrictionError when a restriction rejects the document.
type Acceptor interface {
	Accept(ctx context.Context, doc document.Document) error
}

// Filter enforces Restrictions in front of a document store.
type Filter struct {
	restrictions Restrictions
	store        document.Store
	log          *logger.Logger

	accepted   int
	duplicates int
}

// NewFilter creates a filter storing accepted documents in store.
func NewFilter(restrictions Restrictions, store document.Store, log *logger.Logger) *Filter {
	return &Filter{
		restrictions: restrictions,
		store:        store,
		log:          log,
	}
}

// Accept checks doc against the restrictions and stores it. Links that are
// already stored are skipped without counting against MaxDocuments.
func (f *Filter) Accept(ctx context.Context, doc document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := f.restrictions.Check(doc, f.accepted); err != nil {
		return err
	}

	stored, err := f.store.Add(doc)
	if errors.Is(err, document.ErrDuplicateLink) {
		f.duplicates++
		f.log.Debug("document already stored", "link", doc.Link)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}

	f.accepted++
	f.log.Info("document accepted", "id", stored.ID.String(), "title", stored.Title, "published", stored.Published)
	return nil
}

// Accepted returns the number of documents stored by this filter.
func (f *Filter) Accepted() int {
	return f.accepted
}

// Duplicates returns the number of documents skipped as already stored.
func (f *Filter) Duplicates() int {
	return f.duplicates
}
