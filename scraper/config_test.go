package scraper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault verifies the embedded configuration parses and validates
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "techcrunch-fintech", cfg.Name)
	assert.Equal(t, ModeHTML, cfg.Listing.Mode)
	assert.Contains(t, cfg.Listing.Template, PagePlaceholder)
	assert.Equal(t, "#didomi-notice-disagree-button", cfg.Cookie.DeclineSelector)
	assert.Equal(t, "datetime", cfg.Article.DateAttribute)
	assert.Equal(t, cfg.Listing.Template, cfg.ListingTemplate())
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`
listing:
  template: "https://example.com/page/{page}/"
  card_selector: ".card"
  link_selector: "h3 a"
article:
  container_selector: "article"
  title_selector: "h1"
  date_selector: "time"
  body_selector: "article p"
`))
	require.NoError(t, err)

	assert.Equal(t, ModeHTML, cfg.Listing.Mode, "mode defaults to html")
	assert.Equal(t, "datetime", cfg.Article.DateAttribute)
	assert.Equal(t, ".card", cfg.Listing.ReadyOrCard(), "ready selector falls back to card selector")
}

func TestParse_MissingPlaceholder(t *testing.T) {
	_, err := Parse([]byte(`
listing:
  template: "https://example.com/page/1/"
  card_selector: ".card"
  link_selector: "a"
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), PagePlaceholder)
}

func TestParse_MissingSelectors(t *testing.T) {
	_, err := Parse([]byte(`
listing:
  template: "https://example.com/page/{page}/"
article:
  title_selector: "h1"
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "listing.card_selector")
	assert.Contains(t, err.Error(), "article.container_selector")
	assert.NotContains(t, err.Error(), "article.title_selector")
}

func TestParse_FeedMode(t *testing.T) {
	cfg, err := Parse([]byte(`
listing:
  mode: feed
  feed_template: "https://example.com/feed/?paged={page}"
article:
  container_selector: "article"
  title_selector: "h1"
  date_selector: "time"
  body_selector: "p"
`))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/feed/?paged={page}", cfg.ListingTemplate())
}

func TestParse_UnknownMode(t *testing.T) {
	_, err := Parse([]byte("listing:\n  mode: click\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, defaultConfig, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
