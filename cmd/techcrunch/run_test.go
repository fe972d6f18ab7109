package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pevans/techcrunch-parser/browser"
	"github.com/pevans/techcrunch-parser/config"
	"github.com/pevans/techcrunch-parser/document"
	"github.com/pevans/techcrunch-parser/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserOptions(t *testing.T) {
	cfg := config.Defaults()
	cfg.Timing.PageDelay = time.Second
	cfg.Extraction.StrictFields = true

	opts, err := parserOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, time.Second, opts.PageDelay)
	assert.Equal(t, 20*time.Second, opts.WaitTimeout)
	assert.True(t, opts.StrictFields)
	assert.Nil(t, opts.Languages)

	cfg.Extraction.Languages = []string{"en", "de"}
	opts, err = parserOptions(cfg)
	require.NoError(t, err)
	assert.NotNil(t, opts.Languages)

	cfg.Extraction.Languages = []string{"en", "zz"}
	_, err = parserOptions(cfg)
	assert.Error(t, err)
}

func TestLoadSite(t *testing.T) {
	cfg := config.Defaults()

	site, err := loadSite(cfg)
	require.NoError(t, err)
	assert.Equal(t, scraper.Default(), site)

	cfg.Site = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = loadSite(cfg)
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Defaults()
	cfg.Storage.DSN = filepath.Join(dir, "documents")
	store, err := openStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &document.FileStore{}, store)
	require.NoError(t, store.Close())

	cfg.Storage.Type = config.StorageSQLite
	cfg.Storage.DSN = filepath.Join(dir, "documents.db")
	store, err = openStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &document.SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = os.Stat(cfg.Storage.DSN)
	assert.NoError(t, err)
}

func TestOpenBrowser_HTTP(t *testing.T) {
	b, err := openBrowser(config.Defaults())
	require.NoError(t, err)
	assert.IsType(t, &browser.HTTP{}, b)
	assert.NoError(t, b.Close())
}

func TestNewApp(t *testing.T) {
	app := newApp()

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"run", "list", "selectors"}, names)
}
