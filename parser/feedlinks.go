package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/pevans/techcrunch-parser/logger"
)

// FeedLinks reads article links from paged RSS or Atom category feeds
// (WordPress serves them at feed/?paged=N). A page past the end answers 404,
// which counts as an exhausted listing.
type FeedLinks struct {
	parser *gofeed.Parser
	log    *logger.Logger

	links []string
}

// NewFeedLinks creates a feed link source. A nil client uses gofeed's
// default.
func NewFeedLinks(client *http.Client, userAgent string, log *logger.Logger) *FeedLinks {
	fp := gofeed.NewParser()
	if client != nil {
		fp.Client = client
	}
	if userAgent != "" {
		fp.UserAgent = userAgent
	}

	return &FeedLinks{
		parser: fp,
		log:    log,
	}
}

// Load fetches and parses feed page url.
func (f *FeedLinks) Load(ctx context.Context, url string) error {
	f.links = nil

	feed, err := f.parser.ParseURLWithContext(url, ctx)
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
		f.log.Debug("feed page not found", "url", url)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}
	f.log.Debug("entered on feed page", "url", url, "title", feed.Title)

	for i, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			f.log.Error("feed item has no link", "url", url, "item", i)
			continue
		}

		resolved, err := resolveLink(url, link)
		if err != nil {
			f.log.Error("feed item has an invalid link", "url", url, "item", i, "link", link, "error", err)
			continue
		}
		f.links = append(f.links, resolved)
	}

	return nil
}

// Links returns the item links of the last loaded feed page.
func (f *FeedLinks) Links(_ context.Context, _ string) ([]string, error) {
	return f.links, nil
}
