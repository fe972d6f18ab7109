package parser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/go-shiori/go-readability"
	"github.com/pevans/techcrunch-parser/browser"
	"github.com/pevans/techcrunch-parser/document"
	"github.com/pevans/techcrunch-parser/logger"
	"github.com/pevans/techcrunch-parser/scraper"
)

// abstractLength is how many characters of body text make a fallback
// abstract.
const abstractLength = 200

// Article extraction errors. Either one abandons the article.
var (
	ErrMissingTitle = errors.New("article has no title")
	ErrMissingDate  = errors.New("article has no publication date")
)

// ArticleExtractor builds a Document from an article page.
type ArticleExtractor struct {
	fetcher *Fetcher
	page    *browser.Page
	config  scraper.ArticleConfig
	opts    Options
	log     *logger.Logger
}

// NewArticleExtractor creates an extractor loading pages through fetcher.
func NewArticleExtractor(fetcher *Fetcher, page *browser.Page, config scraper.ArticleConfig, opts Options, log *logger.Logger) *ArticleExtractor {
	return &ArticleExtractor{
		fetcher: fetcher,
		page:    page,
		config:  config,
		opts:    opts,
		log:     log,
	}
}

// Extract loads link and extracts its fields. The title and publication
// date are required; every other field degrades to absent on failure.
func (e *ArticleExtractor) Extract(ctx context.Context, link string) (document.Document, error) {
	if err := document.ValidateLink(link); err != nil {
		return document.Document{}, err
	}

	if err := e.fetcher.Load(ctx, link); err != nil {
		return document.Document{}, fmt.Errorf("failed to load article: %w", err)
	}

	if _, err := e.page.WaitUntil(ctx, browser.PresenceOf(e.config.ContainerSelector), e.opts.ArticleWait); err != nil {
		return document.Document{}, fmt.Errorf("article container not found: %w", err)
	}

	doc, err := e.page.Document(ctx)
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to read article: %w", err)
	}

	// Extract main elements (required)
	title := normalizeSpace(doc.Find(e.config.TitleSelector).First().Text())
	if title == "" {
		return document.Document{}, ErrMissingTitle
	}

	published, err := e.published(doc)
	if err != nil {
		return document.Document{}, err
	}

	log := e.log.With("url", link)

	text := attempt(log, "text", func() (string, error) {
		return e.body(doc, link)
	})

	abstract := attempt(log, "abstract", func() (string, error) {
		return e.abstract(doc, text)
	})

	other := map[string]string{}
	for _, field := range []struct{ key, selector string }{
		{document.OtherAuthor, e.config.AuthorSelector},
		{document.OtherCategory, e.config.CategorySelector},
	} {
		if field.selector == "" {
			continue
		}
		value, err := e.optional(ctx, log, field.key, field.selector)
		if err != nil {
			return document.Document{}, err
		}
		if value != nil {
			other[field.key] = *value
		}
	}

	if e.opts.Languages != nil {
		sample := title
		if text != nil {
			sample = *text
		}
		language := attempt(log, "language", func() (string, error) {
			code, ok := e.opts.Languages.Detect(sample)
			if !ok {
				return "", errFieldEmpty
			}
			return code, nil
		})
		if language != nil {
			other[document.OtherLanguage] = *language
		}
	}

	if len(other) == 0 {
		other = nil
	}

	return document.Document{
		Title:     title,
		Abstract:  abstract,
		Text:      text,
		Link:      link,
		Other:     other,
		Published: published,
		Loaded:    e.opts.now(),
	}, nil
}

// published parses the machine-readable date and drops its zone.
func (e *ArticleExtractor) published(doc *goquery.Document) (published time.Time, err error) {
	raw := strings.TrimSpace(doc.Find(e.config.DateSelector).First().AttrOr(e.config.DateAttribute, ""))
	if raw == "" {
		return published, ErrMissingDate
	}

	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		return published, fmt.Errorf("failed to parse publication date %q: %w", raw, err)
	}

	return document.Naive(parsed), nil
}

// body joins the article paragraphs with newlines.
func (e *ArticleExtractor) body(doc *goquery.Document, link string) (string, error) {
	var paragraphs []string
	doc.Find(e.config.BodySelector).Each(func(_ int, p *goquery.Selection) {
		if text := paragraphText(p); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) > 0 {
		return strings.Join(paragraphs, "\n"), nil
	}

	if e.opts.ReadabilityFallback {
		return readableText(doc, link)
	}

	return "", errFieldEmpty
}

// abstract prefers the meta description and falls back to the start of the
// body text.
func (e *ArticleExtractor) abstract(doc *goquery.Document, text *string) (string, error) {
	if e.config.DescriptionSelector != "" {
		description := doc.Find(e.config.DescriptionSelector).First()
		if description.Length() > 0 {
			return elementValue(description), nil
		}
	}

	if text != nil {
		return truncate(*text, abstractLength) + "...", nil
	}

	return "", errFieldEmpty
}

// optional waits for a field element and reads it. With StrictFields a
// failure is returned; otherwise it is logged and the field is absent.
func (e *ArticleExtractor) optional(ctx context.Context, log *logger.Logger, field, selector string) (*string, error) {
	extract := func() (string, error) {
		sel, err := e.page.WaitUntil(ctx, browser.PresenceOf(selector), e.opts.WaitTimeout)
		if err != nil {
			return "", err
		}
		if value := elementValue(sel.First()); value != "" {
			return value, nil
		}
		return "", errFieldEmpty
	}

	if e.opts.StrictFields {
		value, err := extract()
		if err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", field, err)
		}
		return &value, nil
	}

	return attempt(log, field, extract), nil
}

// readableText distills the main text of the page with readability. The
// snapshot is serialised first because readability rewrites the tree it is
// given.
func readableText(doc *goquery.Document, link string) (string, error) {
	html, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return "", err
	}

	pageURL, err := url.Parse(link)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}

	var paragraphs []string
	for line := range strings.SplitSeq(article.TextContent, "\n") {
		if line = normalizeSpace(line); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	if len(paragraphs) == 0 {
		return "", errFieldEmpty
	}

	return strings.Join(paragraphs, "\n"), nil
}

// paragraphText renders a paragraph the way a browser shows it: source
// whitespace collapses, <br> starts a new line.
func paragraphText(p *goquery.Selection) string {
	const lineBreak = "\u2028"

	p = p.Clone()
	p.Find("br").ReplaceWithHtml(lineBreak)

	var lines []string
	for line := range strings.SplitSeq(p.Text(), lineBreak) {
		if line = normalizeSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// elementValue reads meta tags by their content attribute and every other
// element by its text.
func elementValue(sel *goquery.Selection) string {
	if goquery.NodeName(sel) == "meta" {
		return strings.TrimSpace(sel.AttrOr("content", ""))
	}
	return normalizeSpace(sel.Text())
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate returns the first n characters of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
