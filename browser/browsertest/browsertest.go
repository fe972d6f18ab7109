// Package browsertest provides a scripted in-memory browser.Browser for
// tests.
package browsertest

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/techcrunch-parser/browser"
)

// Browser serves pages from a map of URL to HTML. Clicks on elements that
// exist are recorded; OnClick can rewrite the page in response.
type Browser struct {
	Pages map[string]string
	// Errors makes Navigate fail for a URL.
	Errors map[string]error
	// OnClick replaces the current page HTML when a selector is clicked.
	OnClick map[string]string

	Visits []string
	Clicks []string
	Closed bool

	url  string
	html string
}

// New creates a browser serving pages.
func New(pages map[string]string) *Browser {
	return &Browser{
		Pages:   pages,
		Errors:  map[string]error{},
		OnClick: map[string]string{},
	}
}

// Navigate loads a scripted page. Unknown URLs fail like a 404.
func (b *Browser) Navigate(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.Visits = append(b.Visits, rawURL)

	if err, ok := b.Errors[rawURL]; ok {
		return err
	}

	html, ok := b.Pages[rawURL]
	if !ok {
		return fmt.Errorf("HTTP error: 404 Not Found")
	}

	b.url = rawURL
	b.html = html
	return nil
}

// CurrentURL returns the URL of the loaded page.
func (b *Browser) CurrentURL() string {
	return b.url
}

// Document parses the current page. Each call returns a fresh snapshot.
func (b *Browser) Document(_ context.Context) (*goquery.Document, error) {
	if b.url == "" {
		return nil, browser.ErrNoPage
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.html))
	if err != nil {
		return nil, err
	}
	if u, err := url.Parse(b.url); err == nil {
		doc.Url = u
	}
	return doc, nil
}

// Click records the click if selector matches the current page.
func (b *Browser) Click(ctx context.Context, selector string) error {
	doc, err := b.Document(ctx)
	if err != nil {
		return err
	}
	if doc.Find(selector).Length() == 0 {
		return &browser.ElementError{Selector: selector, Err: browser.ErrNoSuchElement}
	}

	b.Clicks = append(b.Clicks, selector)
	if html, ok := b.OnClick[selector]; ok {
		b.html = html
	}
	return nil
}

// Close marks the browser closed.
func (b *Browser) Close() error {
	b.Closed = true
	return nil
}
