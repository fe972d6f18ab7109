package browser

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultUserAgent is sent by the HTTP browser unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

// HTTP is a Browser over plain HTTP. It sees the server-rendered DOM only:
// nothing is executed, and Click always fails with ErrNotInteractive.
type HTTP struct {
	client    *http.Client
	userAgent string

	url string
	doc *goquery.Document
}

// HTTPOptions configures the HTTP browser.
type HTTPOptions struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
}

// NewHTTP creates an HTTP browser.
func NewHTTP(opts HTTPOptions) *HTTP {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &HTTP{
		client:    client,
		userAgent: userAgent,
	}
}

// Navigate fetches url and parses the response as HTML. Client error pages
// load like any other page; a 5xx response is an error and leaves the
// previous page in place.
func (h *HTTP) Navigate(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	// A 4xx page is still a page, as in a real browser
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Record the final URL so relative links resolve after redirects
	doc.Url = resp.Request.URL
	h.url = resp.Request.URL.String()
	h.doc = doc

	return nil
}

// CurrentURL returns the URL of the loaded page.
func (h *HTTP) CurrentURL() string {
	return h.url
}

// Document returns the parsed page. The static DOM never changes between
// calls.
func (h *HTTP) Document(_ context.Context) (*goquery.Document, error) {
	if h.doc == nil {
		return nil, ErrNoPage
	}
	return h.doc, nil
}

// Click is not supported on a static DOM.
func (h *HTTP) Click(_ context.Context, selector string) error {
	return &ElementError{Selector: selector, Err: ErrNotInteractive}
}

// Close is a no-op.
func (h *HTTP) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
