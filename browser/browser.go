// Package browser exposes the small slice of browser automation the parser
// needs: navigate, snapshot the DOM, click, and poll the DOM until a
// condition holds.
package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Browser errors.
var (
	ErrNoSuchElement  = errors.New("no such element")
	ErrTimeout        = errors.New("timed out waiting for condition")
	ErrNotInteractive = errors.New("browser cannot interact with elements")
	ErrNoPage         = errors.New("no page loaded")
)

// Browser is a single automated browser window. Implementations are not safe
// for concurrent use; one caller drives navigation.
type Browser interface {
	// Navigate loads url into the window.
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the URL of the loaded page, after redirects.
	CurrentURL() string

	// Document returns a snapshot of the current DOM.
	Document(ctx context.Context) (*goquery.Document, error)

	// Click activates the first element matching a CSS selector.
	Click(ctx context.Context, selector string) error

	// Close releases the browser.
	Close() error
}

// ElementError reports a selector that matched nothing or failed to settle.
type ElementError struct {
	Selector string
	Err      error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("%s: %v", e.Selector, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}
