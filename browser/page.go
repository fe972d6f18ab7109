package browser

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultPollInterval is how often WaitUntil re-reads the DOM.
const DefaultPollInterval = 250 * time.Millisecond

// Condition inspects a DOM snapshot and returns the matched selection, or an
// empty selection when the condition does not hold yet.
type Condition struct {
	Name  string
	Match func(doc *goquery.Document) *goquery.Selection
}

// PresenceOf holds once at least one element matches selector.
func PresenceOf(selector string) Condition {
	return Condition{
		Name: "presence of " + selector,
		Match: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find(selector)
		},
	}
}

// Clickable holds once the first element matching selector is present and
// not disabled or hidden.
func Clickable(selector string) Condition {
	return Condition{
		Name: "clickable " + selector,
		Match: func(doc *goquery.Document) *goquery.Selection {
			sel := doc.Find(selector).First()
			if sel.Length() == 0 || !interactable(sel) {
				return sel.Slice(0, 0)
			}
			return sel
		},
	}
}

func interactable(sel *goquery.Selection) bool {
	if _, disabled := sel.Attr("disabled"); disabled {
		return false
	}
	if _, hidden := sel.Attr("hidden"); hidden {
		return false
	}
	if v, _ := sel.Attr("aria-hidden"); v == "true" {
		return false
	}
	style := strings.ReplaceAll(strings.ToLower(sel.AttrOr("style", "")), " ", "")
	return !strings.Contains(style, "display:none") && !strings.Contains(style, "visibility:hidden")
}

// Page wraps a Browser with element lookups and explicit waits.
type Page struct {
	browser      Browser
	pollInterval time.Duration
}

// NewPage creates a page helper polling at DefaultPollInterval.
func NewPage(b Browser) *Page {
	return &Page{
		browser:      b,
		pollInterval: DefaultPollInterval,
	}
}

// WithPollInterval returns a copy of the page that polls at d.
func (p *Page) WithPollInterval(d time.Duration) *Page {
	if d <= 0 {
		d = DefaultPollInterval
	}
	return &Page{browser: p.browser, pollInterval: d}
}

// Navigate loads url.
func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.browser.Navigate(ctx, url)
}

// CurrentURL returns the URL of the loaded page.
func (p *Page) CurrentURL() string {
	return p.browser.CurrentURL()
}

// Document returns a fresh DOM snapshot.
func (p *Page) Document(ctx context.Context) (*goquery.Document, error) {
	return p.browser.Document(ctx)
}

// FindOne returns the first element matching selector, or an ElementError
// wrapping ErrNoSuchElement.
func (p *Page) FindOne(ctx context.Context, selector string) (*goquery.Selection, error) {
	sel, err := p.FindAll(ctx, selector)
	if err != nil {
		return nil, err
	}
	if sel.Length() == 0 {
		return nil, &ElementError{Selector: selector, Err: ErrNoSuchElement}
	}
	return sel.First(), nil
}

// FindAll returns every element matching selector in document order. An
// empty selection is not an error.
func (p *Page) FindAll(ctx context.Context, selector string) (*goquery.Selection, error) {
	doc, err := p.browser.Document(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Find(selector), nil
}

// Click activates the first element matching selector.
func (p *Page) Click(ctx context.Context, selector string) error {
	return p.browser.Click(ctx, selector)
}

// WaitUntil polls the DOM until cond holds or timeout elapses. On timeout it
// returns an ElementError wrapping ErrTimeout.
func (p *Page) WaitUntil(ctx context.Context, cond Condition, timeout time.Duration) (*goquery.Selection, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	timedOut := func() error {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &ElementError{Selector: cond.Name, Err: ErrTimeout}
		}
		return ctx.Err()
	}

	for {
		doc, err := p.browser.Document(ctx)
		if err != nil {
			// The wait budget can run out during a slow DOM read
			if ctx.Err() != nil {
				return nil, timedOut()
			}
			return nil, err
		}
		if sel := cond.Match(doc); sel.Length() > 0 {
			return sel, nil
		}

		select {
		case <-ctx.Done():
			return nil, timedOut()
		case <-ticker.C:
		}
	}
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
