package parser

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pevans/techcrunch-parser/browser"
	"github.com/pevans/techcrunch-parser/browser/browsertest"
	"github.com/pevans/techcrunch-parser/document"
	"github.com/pevans/techcrunch-parser/logger"
	"github.com/pevans/techcrunch-parser/scraper"
)

const cookieButton = `<button id="didomi-notice-disagree-button">Disagree</button>`

// listingHTML renders a listing page with one card per href. An empty href
// renders a card without a title link.
func listingHTML(hrefs ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="wp-block-query is-layout-flow wp-block-query-is-layout-flow has-rapid-read has-loaded-user">`)
	for i, href := range hrefs {
		b.WriteString(`<div class="loop-card"><div class="loop-card__content">`)
		if href == "" {
			fmt.Fprintf(&b, `<h3 class="loop-card__title">Untitled %d</h3>`, i)
		} else {
			fmt.Fprintf(&b, `<h3 class="loop-card__title"><a href="%s">Story %d</a></h3>`, href, i)
		}
		b.WriteString(`</div></div>`)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// emptyListingHTML is a listing page past the last article.
const emptyListingHTML = `<html><body><div class="wp-block-query"><p>Nothing here</p></div></body></html>`

// article describes an article page fixture.
type article struct {
	Title       string
	Date        string
	Paragraphs  []string
	Description string
	Author      string
	Category    string
	Cookie      bool
	NoContainer bool
}

func (a article) HTML() string {
	var b strings.Builder
	b.WriteString(`<html><head>`)
	if a.Description != "" {
		fmt.Fprintf(&b, `<meta name="description" content="%s">`, a.Description)
	}
	if a.Author != "" {
		fmt.Fprintf(&b, `<meta name="author" content="%s">`, a.Author)
	}
	b.WriteString(`</head><body>`)
	if a.Cookie {
		b.WriteString(cookieButton)
	}

	container := "article-hero"
	if a.NoContainer {
		container = "post-header"
	}
	fmt.Fprintf(&b, `<div class="%s">`, container)
	if a.Category != "" {
		fmt.Fprintf(&b, `<div class="article-hero__category"><a href="/category/fintech/">%s</a></div>`, a.Category)
	}
	fmt.Fprintf(&b, `<h1 class="article-hero__title wp-block-post-title">%s</h1>`, a.Title)
	if a.Date != "" {
		fmt.Fprintf(&b, `<div class="wp-block-post-date"><time datetime="%s">May 1, 2024</time></div>`, a.Date)
	}
	b.WriteString(`</div><div class="entry-content wp-block-post-content">`)
	for _, p := range a.Paragraphs {
		fmt.Fprintf(&b, "<p>%s</p>\n", p)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// fullArticle is an article page with every field present.
func fullArticle(title, date string) article {
	return article{
		Title:       title,
		Date:        date,
		Paragraphs:  []string{"First paragraph.", "Second paragraph."},
		Description: "A short description.",
		Author:      "Mary Ann Azevedo",
		Category:    "Fintech",
	}
}

// testOptions keeps every wait short so absent elements fail fast.
func testOptions() Options {
	return Options{
		PageDelay:    0,
		WaitTimeout:  20 * time.Millisecond,
		ArticleWait:  20 * time.Millisecond,
		CookieWait:   20 * time.Millisecond,
		PollInterval: 2 * time.Millisecond,
		Now: func() time.Time {
			return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

// testLogger returns a debug logger writing into the returned buffer.
func testLogger() (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.NewWithWriter(&buf, "debug", "text"), &buf
}

// harness bundles a scripted browser with the components under test.
type harness struct {
	browser  *browsertest.Browser
	page     *browser.Page
	fetcher  *Fetcher
	links    *CardLinks
	articles *ArticleExtractor
	logs     *bytes.Buffer
}

func newHarness(t *testing.T, pages map[string]string, opts Options) *harness {
	t.Helper()

	site := scraper.Default()
	log, buf := testLogger()
	b := browsertest.New(pages)
	page := browser.NewPage(b).WithPollInterval(opts.PollInterval)
	fetcher := NewFetcher(page, site.Cookie, opts, log)

	return &harness{
		browser:  b,
		page:     page,
		fetcher:  fetcher,
		links:    NewCardLinks(fetcher, page, site.Listing, opts, log),
		articles: NewArticleExtractor(fetcher, page, site.Article, opts, log),
		logs:     buf,
	}
}

// recorder is an acceptor that stores documents and can reject them.
type recorder struct {
	docs   []document.Document
	reject func(doc document.Document, accepted int) error
}

func (r *recorder) Accept(_ context.Context, doc document.Document) error {
	if r.reject != nil {
		if err := r.reject(doc, len(r.docs)); err != nil {
			return err
		}
	}
	r.docs = append(r.docs, doc)
	return nil
}

func (r *recorder) links() []string {
	links := make([]string, 0, len(r.docs))
	for _, doc := range r.docs {
		links = append(links, doc.Link)
	}
	return links
}
