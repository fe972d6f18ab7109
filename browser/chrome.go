package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// Chrome is a Browser backed by a headless Chrome instance driven over the
// DevTools protocol.
type Chrome struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration

	url string
}

// ChromeOptions configures the Chrome browser.
type ChromeOptions struct {
	ExecPath  string
	UserAgent string
	Headless  bool
	// Timeout bounds every single browser operation.
	Timeout time.Duration
}

// NewChrome starts a Chrome process with one tab.
func NewChrome(opts ChromeOptions) (*Chrome, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.WindowSize(1366, 900),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Run with no actions starts the browser
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Chrome{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		timeout:     timeout,
	}, nil
}

// run executes actions on the tab, bounded by the per-operation timeout and
// by the caller's context.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Navigate loads url and waits for the load event.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	var location string
	if err := c.run(ctx, chromedp.Navigate(url), chromedp.Location(&location)); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}

	c.url = location
	return nil
}

// CurrentURL returns the URL of the loaded page.
func (c *Chrome) CurrentURL() string {
	return c.url
}

// Document snapshots the rendered DOM.
func (c *Chrome) Document(ctx context.Context) (*goquery.Document, error) {
	if c.url == "" {
		return nil, ErrNoPage
	}

	var html string
	if err := c.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("failed to read DOM: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	if u, err := url.Parse(c.url); err == nil {
		doc.Url = u
	}

	return doc, nil
}

// Click clicks the first visible element matching selector.
func (c *Chrome) Click(ctx context.Context, selector string) error {
	if err := c.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return &ElementError{Selector: selector, Err: err}
	}
	return nil
}

// Close shuts the tab and the Chrome process down.
func (c *Chrome) Close() error {
	c.cancel()
	c.allocCancel()
	return nil
}
