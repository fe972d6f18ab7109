package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pevans/techcrunch-parser/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setHome points HOME at a fresh directory and clears the overrides.
func setHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	for _, key := range []string{EnvConfig, EnvLogLevel, EnvStorageDSN, EnvBrowser} {
		t.Setenv(key, "")
	}
	return tmpDir
}

func writeConfig(t *testing.T, home, content string) string {
	t.Helper()
	dir := filepath.Join(home, ".techcrunch")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestLoadConfigFile_NoFile(t *testing.T) {
	setHome(t)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	assert.Nil(t, cfg, "Should return nil when config file doesn't exist")
}

func TestLoadConfigFile_ValidConfig(t *testing.T) {
	home := setHome(t)
	writeConfig(t, home, `site: /etc/techcrunch/site.yaml
browser:
  kind: chrome
  user_agent: "test-agent"
  headless: false
timing:
  page_delay: 500ms
  wait_timeout: 5s
restrictions:
  from_date: "2024-05-01"
  max_documents: 50
storage:
  type: "sqlite"
  dsn: "/path/to/documents.db"
extraction:
  strict_fields: true
  languages: [en, de]
log:
  level: debug
  format: json
`)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/etc/techcrunch/site.yaml", cfg.Site)
	assert.Equal(t, BrowserChrome, cfg.Browser.Kind)
	assert.Equal(t, "test-agent", cfg.Browser.UserAgent)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 500*time.Millisecond, cfg.Timing.PageDelay)
	assert.Equal(t, 5*time.Second, cfg.Timing.WaitTimeout)
	assert.Equal(t, 10*time.Second, cfg.Timing.ArticleWait, "unset durations keep their defaults")
	assert.Equal(t, 50, cfg.Restrictions.MaxDocuments)
	assert.Equal(t, StorageSQLite, cfg.Storage.Type)
	assert.Equal(t, "/path/to/documents.db", cfg.Storage.DSN)
	assert.True(t, cfg.Extraction.StrictFields)
	assert.Equal(t, []string{"en", "de"}, cfg.Extraction.Languages)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile_InvalidYAML(t *testing.T) {
	home := setHome(t)
	writeConfig(t, home, `storage:
  - this is invalid yaml because storage should be an object not a list
`)

	cfg, err := LoadConfigFile()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfigFile_PartialConfig(t *testing.T) {
	home := setHome(t)
	writeConfig(t, home, `storage:
  dsn: "/srv/documents"
`)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, StorageFile, cfg.Storage.Type, "Unspecified storage type should be the default")
	assert.Equal(t, "/srv/documents", cfg.Storage.DSN)
	assert.Equal(t, BrowserHTTP, cfg.Browser.Kind)
	assert.Equal(t, 2*time.Second, cfg.Timing.PageDelay)
}

func TestResolve_Defaults(t *testing.T) {
	home := setHome(t)

	cfg, err := Resolve("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".techcrunch", "documents"), cfg.Storage.DSN)
	assert.Equal(t, BrowserHTTP, cfg.Browser.Kind)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestResolve_ExplicitPath(t *testing.T) {
	setHome(t)
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  type: sqlite\n"), 0o600))

	cfg, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, StorageSQLite, cfg.Storage.Type)
	assert.Equal(t, "documents.db", filepath.Base(cfg.Storage.DSN))

	_, err = Resolve(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestResolve_Environment(t *testing.T) {
	setHome(t)
	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))

	t.Setenv(EnvConfig, path)
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvStorageDSN, "/data/docs")
	t.Setenv(EnvBrowser, "chrome")

	cfg, err := Resolve("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/data/docs", cfg.Storage.DSN)
	assert.Equal(t, BrowserChrome, cfg.Browser.Kind)
}

func TestResolve_Invalid(t *testing.T) {
	setHome(t)
	t.Setenv(EnvBrowser, "netscape")

	_, err := Resolve("")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*FileConfig)
		valid  bool
	}{
		{"defaults", func(*FileConfig) {}, true},
		{"chrome", func(c *FileConfig) { c.Browser.Kind = BrowserChrome }, true},
		{"unknown browser", func(c *FileConfig) { c.Browser.Kind = "lynx" }, false},
		{"unknown storage", func(c *FileConfig) { c.Storage.Type = "postgres" }, false},
		{"unknown log format", func(c *FileConfig) { c.Log.Format = "xml" }, false},
		{"negative delay", func(c *FileConfig) { c.Timing.PageDelay = -time.Second }, false},
		{"negative poll", func(c *FileConfig) { c.Timing.PollInterval = -1 }, false},
		{"negative max documents", func(c *FileConfig) { c.Restrictions.MaxDocuments = -1 }, false},
		{"bad from date", func(c *FileConfig) { c.Restrictions.FromDate = "someday" }, false},
		{"one language", func(c *FileConfig) { c.Extraction.Languages = []string{"en"} }, false},
		{"two languages", func(c *FileConfig) { c.Extraction.Languages = []string{"en", "fr"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestPluginRestrictions(t *testing.T) {
	cfg := Defaults()

	restrictions, err := cfg.PluginRestrictions()
	require.NoError(t, err)
	assert.Equal(t, plugin.Restrictions{}, restrictions)

	cfg.Restrictions.FromDate = "2024-05-01 08:30:00"
	cfg.Restrictions.MaxDocuments = 10

	restrictions, err = cfg.PluginRestrictions()
	require.NoError(t, err)
	require.NotNil(t, restrictions.FromDate)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), *restrictions.FromDate)
	assert.Equal(t, 10, restrictions.MaxDocuments)
}
