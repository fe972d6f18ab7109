package parser

import (
	"context"
	"errors"
	"time"

	"github.com/pevans/techcrunch-parser/browser"
	"github.com/pevans/techcrunch-parser/logger"
	"github.com/pevans/techcrunch-parser/scraper"
)

// Fetcher loads pages into the browser: navigate, let the page settle, then
// get the cookie consent overlay out of the way.
type Fetcher struct {
	page       *browser.Page
	cookie     scraper.CookieConfig
	delay      time.Duration
	cookieWait time.Duration
	log        *logger.Logger
}

// NewFetcher creates a page fetcher.
func NewFetcher(page *browser.Page, cookie scraper.CookieConfig, opts Options, log *logger.Logger) *Fetcher {
	return &Fetcher{
		page:       page,
		cookie:     cookie,
		delay:      opts.PageDelay,
		cookieWait: opts.CookieWait,
		log:        log,
	}
}

// Load navigates to url. Navigation errors are returned unchanged; cookie
// dismissal never fails the load.
func (f *Fetcher) Load(ctx context.Context, url string) error {
	if err := f.page.Navigate(ctx, url); err != nil {
		return err
	}
	f.log.Debug("entered on web page", "url", url)

	if err := browser.Sleep(ctx, f.delay); err != nil {
		return err
	}

	f.dismissCookies(ctx)
	return nil
}

// dismissCookies declines the consent overlay if the page shows one.
func (f *Fetcher) dismissCookies(ctx context.Context) {
	selector := f.cookie.DeclineSelector
	if selector == "" {
		return
	}

	if _, err := f.page.FindOne(ctx, selector); err != nil {
		if errors.Is(err, browser.ErrNoSuchElement) {
			f.log.Debug("cookie modal not found", "url", f.page.CurrentURL())
		} else {
			f.log.Debug("cookie modal lookup failed", "url", f.page.CurrentURL(), "error", err)
		}
		return
	}

	if _, err := f.page.WaitUntil(ctx, browser.Clickable(selector), f.cookieWait); err != nil {
		f.log.Debug("cookie modal not clickable", "url", f.page.CurrentURL(), "error", err)
		return
	}

	if err := f.page.Click(ctx, selector); err != nil {
		f.log.Debug("cookie modal click failed", "url", f.page.CurrentURL(), "error", err)
		return
	}

	f.log.Debug("passed cookie modal", "url", f.page.CurrentURL())
}
