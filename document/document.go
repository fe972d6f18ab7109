// Package document defines the record emitted for every accepted article and
// the stores that persist it.
package document

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Keys of Document.Other.
const (
	OtherAuthor   = "author"
	OtherCategory = "category"
	OtherLanguage = "language"
)

// ErrInvalidLink is returned for links that are not absolute http(s) URLs.
var ErrInvalidLink = errors.New("invalid document link")

// Document is a single extracted article. ID and Storage are left nil by the
// parser and filled in by the store that persists the document.
type Document struct {
	ID        *uuid.UUID        `json:"id,omitempty"`
	Title     string            `json:"title"`
	Abstract  *string           `json:"abstract,omitempty"`
	Text      *string           `json:"text,omitempty"`
	Link      string            `json:"link"`
	Storage   *string           `json:"storage,omitempty"`
	Other     map[string]string `json:"other,omitempty"`
	Published time.Time         `json:"published"`
	Loaded    time.Time         `json:"loaded"`
}

// Author returns the author extension field, or "" when absent.
func (d Document) Author() string {
	return d.Other[OtherAuthor]
}

// Category returns the category extension field, or "" when absent.
func (d Document) Category() string {
	return d.Other[OtherCategory]
}

// Naive drops the zone of t and keeps its wall clock, so that
// 10:00-07:00 and 10:00+02:00 both become 10:00. The result is expressed in
// UTC, which is the convention every naive time in this module uses.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// ValidateLink checks that link is an absolute http or https URL.
func ValidateLink(link string) error {
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidLink, link)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q must use http or https", ErrInvalidLink, link)
	}
	return nil
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
