package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFetcher_NoCookieBanner verifies a page without consent control loads
// cleanly
func TestFetcher_NoCookieBanner(t *testing.T) {
	h := newHarness(t, map[string]string{
		"https://example.com/a": fullArticle("A", "2024-05-01T10:00:00Z").HTML(),
	}, testOptions())

	err := h.fetcher.Load(context.Background(), "https://example.com/a")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", h.page.CurrentURL())
	assert.Empty(t, h.browser.Clicks)
	assert.Contains(t, h.logs.String(), "cookie modal not found")
}

func TestFetcher_DismissesCookieBanner(t *testing.T) {
	a := fullArticle("A", "2024-05-01T10:00:00Z")
	a.Cookie = true
	h := newHarness(t, map[string]string{"https://example.com/a": a.HTML()}, testOptions())

	require.NoError(t, h.fetcher.Load(context.Background(), "https://example.com/a"))

	assert.Equal(t, []string{"#didomi-notice-disagree-button"}, h.browser.Clicks)
	assert.Contains(t, h.logs.String(), "passed cookie modal")
}

// TestFetcher_CookieBannerNotClickable verifies a stuck banner is ignored
func TestFetcher_CookieBannerNotClickable(t *testing.T) {
	h := newHarness(t, map[string]string{
		"https://example.com/a": `<html><body><button id="didomi-notice-disagree-button" disabled>No</button></body></html>`,
	}, testOptions())

	require.NoError(t, h.fetcher.Load(context.Background(), "https://example.com/a"))

	assert.Empty(t, h.browser.Clicks)
	assert.Contains(t, h.logs.String(), "cookie modal not clickable")
}

func TestFetcher_NavigationErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	h := newHarness(t, map[string]string{}, testOptions())
	h.browser.Errors["https://example.com/down"] = boom

	err := h.fetcher.Load(context.Background(), "https://example.com/down")

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, h.browser.Clicks)
}

func TestFetcher_CancelledDuringDelay(t *testing.T) {
	opts := testOptions()
	opts.PageDelay = time.Hour
	h := newHarness(t, map[string]string{"https://example.com/a": "<html></html>"}, opts)

	ctx, cancel := context.WithCancel(context.Background())
	go cancel()

	err := h.fetcher.Load(ctx, "https://example.com/a")
	assert.ErrorIs(t, err, context.Canceled)
}
