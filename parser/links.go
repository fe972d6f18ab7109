package parser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/techcrunch-parser/browser"
	"github.com/pevans/techcrunch-parser/document"
	"github.com/pevans/techcrunch-parser/logger"
	"github.com/pevans/techcrunch-parser/scraper"
)

// LinkSource loads one listing page and reports the article links on it.
type LinkSource interface {
	// Load brings listing page url in. An error here is fatal to the run.
	Load(ctx context.Context, url string) error

	// Links returns the article URLs of the loaded page in listing order.
	// An empty result means the listing is exhausted.
	Links(ctx context.Context, url string) ([]string, error)
}

// CardLinks reads article links from the cards of an HTML listing page.
type CardLinks struct {
	fetcher *Fetcher
	page    *browser.Page
	config  scraper.ListConfig
	wait    time.Duration
	log     *logger.Logger
}

// NewCardLinks creates a card link source loading pages through fetcher.
func NewCardLinks(fetcher *Fetcher, page *browser.Page, config scraper.ListConfig, opts Options, log *logger.Logger) *CardLinks {
	return &CardLinks{
		fetcher: fetcher,
		page:    page,
		config:  config,
		wait:    opts.WaitTimeout,
		log:     log,
	}
}

// Load loads the listing page.
func (c *CardLinks) Load(ctx context.Context, url string) error {
	return c.fetcher.Load(ctx, url)
}

// Links waits for the cards to render and returns the title link of each.
// Cards without a usable link are logged and skipped.
func (c *CardLinks) Links(ctx context.Context, pageURL string) ([]string, error) {
	_, err := c.page.WaitUntil(ctx, browser.PresenceOf(c.config.ReadyOrCard()), c.wait)
	if errors.Is(err, browser.ErrTimeout) {
		c.log.Info("no article cards on listing page", "url", pageURL)
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to wait for article cards: %w", err)
	}

	cards, err := c.page.FindAll(ctx, c.config.CardSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to read article cards: %w", err)
	}

	base := c.page.CurrentURL()
	if base == "" {
		base = pageURL
	}

	links := make([]string, 0, cards.Length())
	cards.Each(func(i int, card *goquery.Selection) {
		href := strings.TrimSpace(card.Find(c.config.LinkSelector).First().AttrOr("href", ""))
		if href == "" {
			c.log.Error("article card has no title link", "url", pageURL, "card", i)
			return
		}

		link, err := resolveLink(base, href)
		if err != nil {
			c.log.Error("article card has an invalid link", "url", pageURL, "card", i, "href", href, "error", err)
			return
		}

		links = append(links, link)
	})

	c.log.Debug("collected article links", "url", pageURL, "cards", cards.Length(), "links", len(links))
	return links, nil
}

// resolveLink makes href absolute against the page it was found on.
func resolveLink(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid page URL: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href: %w", err)
	}

	link := baseURL.ResolveReference(ref).String()
	if err := document.ValidateLink(link); err != nil {
		return "", err
	}
	return link, nil
}
