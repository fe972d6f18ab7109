// Package parser walks the paginated category listing of a news site and
// turns each article into a document.Document for the host.
package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pevans/techcrunch-parser/browser"
	"github.com/pevans/techcrunch-parser/logger"
	"github.com/pevans/techcrunch-parser/plugin"
	"github.com/pevans/techcrunch-parser/scraper"
)

// Config wires a Techcrunch parser.
type Config struct {
	Site     *scraper.SiteConfig
	Browser  browser.Browser
	Acceptor plugin.Acceptor
	Options  Options
	Logger   *logger.Logger

	// FeedClient is used by the feed listing mode. Nil uses gofeed's client.
	FeedClient *http.Client
	// UserAgent is sent by the feed listing mode.
	UserAgent string
}

// Techcrunch is the parser. Parse runs it once.
type Techcrunch struct {
	name     string
	listing  Listing
	links    LinkSource
	articles *ArticleExtractor
	acceptor plugin.Acceptor
	log      *logger.Logger
}

// New creates a parser from cfg.
func New(cfg Config) (*Techcrunch, error) {
	if cfg.Site == nil {
		cfg.Site = scraper.Default()
	}
	if cfg.Browser == nil {
		return nil, errors.New("parser needs a browser")
	}
	if cfg.Acceptor == nil {
		return nil, errors.New("parser needs an acceptor")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	cfg.Options = cfg.Options.withDefaults()
	if err := cfg.Site.Validate(); err != nil {
		return nil, err
	}

	listing, err := NewListing(cfg.Site.ListingTemplate())
	if err != nil {
		return nil, err
	}

	log := cfg.Logger.With("plugin", cfg.Site.Name)
	page := browser.NewPage(cfg.Browser).WithPollInterval(cfg.Options.PollInterval)
	fetcher := NewFetcher(page, cfg.Site.Cookie, cfg.Options, log)

	var links LinkSource
	if cfg.Site.Listing.Mode == scraper.ModeFeed {
		links = NewFeedLinks(cfg.FeedClient, cfg.UserAgent, log)
	} else {
		links = NewCardLinks(fetcher, page, cfg.Site.Listing, cfg.Options, log)
	}

	return &Techcrunch{
		name:     cfg.Site.Name,
		listing:  listing,
		links:    links,
		articles: NewArticleExtractor(fetcher, page, cfg.Site.Article, cfg.Options, log),
		acceptor: cfg.Acceptor,
		log:      log,
	}, nil
}

// run carries the counters of one Parse call.
type run struct {
	pages    int
	accepted int
	skipped  int
}

func (r *run) outcome(status plugin.Status, reason string, cause error) plugin.Outcome {
	return plugin.Outcome{
		Status:   status,
		Reason:   reason,
		Cause:    cause,
		Pages:    r.pages,
		Accepted: r.accepted,
		Skipped:  r.skipped,
	}
}

// Parse walks listing pages from page 1, extracting and submitting every
// article, until the listing runs out, the date restriction is crossed, a
// listing page fails to load, or the acceptor rejects a document for any
// other reason.
func (t *Techcrunch) Parse(ctx context.Context) plugin.Outcome {
	t.log.Debug("parser enter", "listing", t.listing.PageURL(1))

	r := &run{}
	for page, pageURL := range t.listing.Cursor().All() {
		r.pages = page

		outcome := t.parsePage(ctx, r, pageURL)
		if outcome.Status == plugin.Continue {
			continue
		}

		t.report(outcome)
		return outcome
	}

	// All never ends on its own
	panic("unreachable")
}

// parsePage handles one listing page.
func (t *Techcrunch) parsePage(ctx context.Context, r *run, pageURL string) plugin.Outcome {
	if err := t.links.Load(ctx, pageURL); err != nil {
		return r.outcome(plugin.Fatal, "link can't open", t.finish("link can't open", err))
	}

	links, err := t.links.Links(ctx, pageURL)
	if err != nil {
		return r.outcome(plugin.Fatal, "listing can't be read", t.finish("listing can't be read", err))
	}
	if len(links) == 0 {
		return r.outcome(plugin.Exhausted, fmt.Sprintf("no articles on %s", pageURL), nil)
	}

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return r.outcome(plugin.Fatal, "run cancelled", t.finish("run cancelled", err))
		}

		if outcome := t.parseArticle(ctx, r, link); outcome.Status != plugin.Continue {
			return outcome
		}
	}

	return r.outcome(plugin.Continue, "", nil)
}

// parseArticle extracts one article and submits it.
func (t *Techcrunch) parseArticle(ctx context.Context, r *run, link string) plugin.Outcome {
	doc, err := t.articles.Extract(ctx, link)
	if err != nil {
		r.skipped++
		t.log.Exception("failed to extract article", err, "url", link)
		return r.outcome(plugin.Continue, "", nil)
	}

	err = t.acceptor.Accept(ctx, doc)
	if err == nil {
		r.accepted++
		return r.outcome(plugin.Continue, "", nil)
	}

	var restrictionErr *plugin.OutOfRestrictionError
	if errors.As(err, &restrictionErr) && restrictionErr.Restriction == plugin.FromDate {
		// Listings run newest to oldest, so everything after this is older
		reason := fmt.Sprintf("document is out of date range `%s`", restrictionErr.Bound)
		return r.outcome(plugin.OutOfRange, reason, t.finish(reason, err))
	}

	return r.outcome(plugin.Escalated, "document rejected by host", err)
}

func (t *Techcrunch) finish(message string, err error) *plugin.FinishError {
	return &plugin.FinishError{
		Plugin:  t.name,
		Message: message,
		Err:     err,
	}
}

// report logs how the run ended.
func (t *Techcrunch) report(outcome plugin.Outcome) {
	args := []any{
		"status", outcome.Status.String(),
		"pages", outcome.Pages,
		"accepted", outcome.Accepted,
		"skipped", outcome.Skipped,
	}

	if outcome.Graceful() {
		t.log.Info("parser finished: "+outcome.Reason, args...)
		return
	}
	t.log.Exception("parser stopped: "+outcome.Reason, outcome.Cause, args...)
}
