package parser

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/pevans/techcrunch-parser/scraper"
)

// Listing formats listing page URLs from a template containing
// scraper.PagePlaceholder. It holds no position; see Cursor.
type Listing struct {
	template string
}

// NewListing validates template and returns its formatter.
func NewListing(template string) (Listing, error) {
	if !strings.Contains(template, scraper.PagePlaceholder) {
		return Listing{}, fmt.Errorf("listing template %q has no %s placeholder", template, scraper.PagePlaceholder)
	}
	return Listing{template: template}, nil
}

// PageURL returns the URL of listing page n.
func (l Listing) PageURL(n int) string {
	return strings.ReplaceAll(l.template, scraper.PagePlaceholder, strconv.Itoa(n))
}

// Cursor starts a page counter at page 1.
func (l Listing) Cursor() *Cursor {
	return &Cursor{listing: l, next: 1}
}

// Cursor walks listing pages in order. Every call to Next advances by one
// page, so no page is skipped or repeated until Reset.
type Cursor struct {
	listing Listing
	next    int
}

// Next returns the next page number and its URL.
func (c *Cursor) Next() (int, string) {
	n := c.next
	c.next++
	return n, c.listing.PageURL(n)
}

// Page returns the page number Next will yield.
func (c *Cursor) Page() int {
	return c.next
}

// Reset rewinds the cursor to page 1.
func (c *Cursor) Reset() {
	c.next = 1
}

// All yields page numbers and URLs from the cursor's position without end.
// The consumer decides when to stop.
func (c *Cursor) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for {
			if !yield(c.Next()) {
				return
			}
		}
	}
}
