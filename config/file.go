// Package config loads the run configuration of the techcrunch command from
// ~/.techcrunch/config.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pevans/techcrunch-parser/plugin"
	"gopkg.in/yaml.v3"
)

// Browser kinds.
const (
	BrowserHTTP   = "http"
	BrowserChrome = "chrome"
)

// Storage types.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Environment variables read by ApplyEnv and Resolve.
const (
	EnvConfig     = "TECHCRUNCH_CONFIG"
	EnvLogLevel   = "TECHCRUNCH_LOG_LEVEL"
	EnvStorageDSN = "TECHCRUNCH_STORAGE_DSN"
	EnvBrowser    = "TECHCRUNCH_BROWSER"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// BrowserConfig selects and tunes the browser backend.
type BrowserConfig struct {
	Kind      string        `yaml:"kind"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	Headless  bool          `yaml:"headless"`
	ExecPath  string        `yaml:"exec_path"`
}

// TimingConfig holds the delays and wait budgets of a run.
type TimingConfig struct {
	PageDelay    time.Duration `yaml:"page_delay"`
	WaitTimeout  time.Duration `yaml:"wait_timeout"`
	ArticleWait  time.Duration `yaml:"article_wait"`
	CookieWait   time.Duration `yaml:"cookie_wait"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// RestrictionsConfig limits which documents a run accepts.
type RestrictionsConfig struct {
	// FromDate is any format dateparse understands, e.g. 2024-05-01.
	FromDate     string `yaml:"from_date"`
	MaxDocuments int    `yaml:"max_documents"`
}

// StorageConfig represents storage configuration from config file.
type StorageConfig struct {
	Type string `yaml:"type"`
	DSN  string `yaml:"dsn"`
}

// ExtractionConfig tunes article extraction.
type ExtractionConfig struct {
	StrictFields        bool     `yaml:"strict_fields"`
	ReadabilityFallback bool     `yaml:"readability_fallback"`
	Languages           []string `yaml:"languages"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FileConfig represents the structure of ~/.techcrunch/config.yaml.
type FileConfig struct {
	// Site is a path to a selector file. Empty uses the embedded one.
	Site         string             `yaml:"site"`
	Browser      BrowserConfig      `yaml:"browser"`
	Timing       TimingConfig       `yaml:"timing"`
	Restrictions RestrictionsConfig `yaml:"restrictions"`
	Storage      StorageConfig      `yaml:"storage"`
	Extraction   ExtractionConfig   `yaml:"extraction"`
	Log          LogConfig          `yaml:"log"`
}

// Defaults returns the configuration used when no file sets a value.
func Defaults() *FileConfig {
	return &FileConfig{
		Browser: BrowserConfig{
			Kind:     BrowserHTTP,
			Timeout:  30 * time.Second,
			Headless: true,
		},
		Timing: TimingConfig{
			PageDelay:    2 * time.Second,
			WaitTimeout:  20 * time.Second,
			ArticleWait:  10 * time.Second,
			CookieWait:   2 * time.Second,
			PollInterval: 250 * time.Millisecond,
		},
		Storage: StorageConfig{
			Type: StorageFile,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Dir returns ~/.techcrunch.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".techcrunch"), nil
}

// LoadConfigFile loads configuration from ~/.techcrunch/config.yaml. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, "config.yaml")

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads configuration from path on top of Defaults.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Resolve finds the configuration for a run: path if given, else
// $TECHCRUNCH_CONFIG, else ~/.techcrunch/config.yaml, else Defaults. The
// environment overrides are applied and the result validated.
func Resolve(path string) (*FileConfig, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	var cfg *FileConfig
	var err error
	if path != "" {
		cfg, err = LoadConfig(path)
	} else {
		cfg, err = LoadConfigFile()
	}
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Defaults()
	}

	cfg.ApplyEnv(os.Getenv)

	if cfg.Storage.DSN == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		cfg.Storage.DSN = cfg.defaultDSN(dir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *FileConfig) defaultDSN(dir string) string {
	if c.Storage.Type == StorageSQLite {
		return filepath.Join(dir, "documents.db")
	}
	return filepath.Join(dir, "documents")
}

// ApplyEnv overrides settings from environment variables read with getenv.
func (c *FileConfig) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvStorageDSN); v != "" {
		c.Storage.DSN = v
	}
	if v := getenv(EnvBrowser); v != "" {
		c.Browser.Kind = v
	}
}

// Validate reports the first setting that cannot be used.
func (c *FileConfig) Validate() error {
	switch c.Browser.Kind {
	case BrowserHTTP, BrowserChrome:
	default:
		return fmt.Errorf("%w: unknown browser kind %q", ErrInvalid, c.Browser.Kind)
	}

	switch c.Storage.Type {
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("%w: unknown storage type %q", ErrInvalid, c.Storage.Type)
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.Log.Format)
	}

	for name, d := range map[string]time.Duration{
		"browser.timeout":      c.Browser.Timeout,
		"timing.page_delay":    c.Timing.PageDelay,
		"timing.wait_timeout":  c.Timing.WaitTimeout,
		"timing.article_wait":  c.Timing.ArticleWait,
		"timing.cookie_wait":   c.Timing.CookieWait,
		"timing.poll_interval": c.Timing.PollInterval,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalid, name)
		}
	}

	if c.Restrictions.MaxDocuments < 0 {
		return fmt.Errorf("%w: restrictions.max_documents must not be negative", ErrInvalid)
	}
	if _, err := c.FromDate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if n := len(c.Extraction.Languages); n == 1 {
		return fmt.Errorf("%w: extraction.languages needs at least two languages", ErrInvalid)
	}

	return nil
}

// FromDate parses restrictions.from_date. Nil means no bound.
func (c *FileConfig) FromDate() (*time.Time, error) {
	raw := strings.TrimSpace(c.Restrictions.FromDate)
	if raw == "" {
		return nil, nil
	}

	from, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse from_date %q: %w", raw, err)
	}
	return &from, nil
}

// PluginRestrictions converts the restrictions section for a run.
func (c *FileConfig) PluginRestrictions() (plugin.Restrictions, error) {
	from, err := c.FromDate()
	if err != nil {
		return plugin.Restrictions{}, err
	}
	return plugin.Restrictions{
		FromDate:     from,
		MaxDocuments: c.Restrictions.MaxDocuments,
	}, nil
}
