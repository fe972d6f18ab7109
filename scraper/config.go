package scraper

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PagePlaceholder is substituted with the listing page number.
const PagePlaceholder = "{page}"

// Listing modes.
const (
	ModeHTML = "html"
	ModeFeed = "feed"
)

// ErrInvalidConfig is returned when a site configuration is unusable.
var ErrInvalidConfig = errors.New("invalid site config")

//go:embed techcrunch.yaml
var defaultConfig []byte

// SiteConfig defines how to walk and extract articles from one news site.
// Selectors live here rather than in code because markup changes are the
// usual reason the parser breaks.
type SiteConfig struct {
	Version int           `yaml:"version" json:"version"`
	Name    string        `yaml:"name" json:"name"`
	Listing ListConfig    `yaml:"listing" json:"listing"`
	Article ArticleConfig `yaml:"article" json:"article"`
	Cookie  CookieConfig  `yaml:"cookie" json:"cookie"`
}

// ListConfig defines how to discover articles from listing pages.
type ListConfig struct {
	Mode          string `yaml:"mode" json:"mode"` // "html" or "feed"
	Template      string `yaml:"template" json:"template"`
	ReadySelector string `yaml:"ready_selector" json:"ready_selector"`
	CardSelector  string `yaml:"card_selector" json:"card_selector"`
	LinkSelector  string `yaml:"link_selector" json:"link_selector"`
	FeedTemplate  string `yaml:"feed_template,omitempty" json:"feed_template,omitempty"`
}

// ArticleConfig defines how to extract fields from individual article
// pages.
type ArticleConfig struct {
	ContainerSelector   string `yaml:"container_selector" json:"container_selector"`
	TitleSelector       string `yaml:"title_selector" json:"title_selector"`
	DateSelector        string `yaml:"date_selector" json:"date_selector"`
	DateAttribute       string `yaml:"date_attribute" json:"date_attribute"`
	BodySelector        string `yaml:"body_selector" json:"body_selector"`
	DescriptionSelector string `yaml:"description_selector,omitempty" json:"description_selector,omitempty"`
	AuthorSelector      string `yaml:"author_selector,omitempty" json:"author_selector,omitempty"`
	CategorySelector    string `yaml:"category_selector,omitempty" json:"category_selector,omitempty"`
}

// CookieConfig identifies the consent overlay control to dismiss.
type CookieConfig struct {
	DeclineSelector string `yaml:"decline_selector,omitempty" json:"decline_selector,omitempty"`
}

// Default returns the embedded TechCrunch fintech configuration.
func Default() *SiteConfig {
	cfg, err := Parse(defaultConfig)
	if err != nil {
		// The embedded file is covered by tests.
		panic(fmt.Sprintf("embedded site config: %v", err))
	}
	return cfg
}

// Load reads a site configuration from a YAML file.
func Load(path string) (*SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML site configuration.
func Parse(data []byte) (*SiteConfig, error) {
	var cfg SiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse site config: %w", err)
	}

	if cfg.Listing.Mode == "" {
		cfg.Listing.Mode = ModeHTML
	}
	if cfg.Article.DateAttribute == "" {
		cfg.Article.DateAttribute = "datetime"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that every selector the parser depends on is present.
func (c *SiteConfig) Validate() error {
	var missing []string

	switch c.Listing.Mode {
	case ModeHTML:
		if !strings.Contains(c.Listing.Template, PagePlaceholder) {
			return fmt.Errorf("%w: listing template must contain %s", ErrInvalidConfig, PagePlaceholder)
		}
		if c.Listing.CardSelector == "" {
			missing = append(missing, "listing.card_selector")
		}
		if c.Listing.LinkSelector == "" {
			missing = append(missing, "listing.link_selector")
		}
	case ModeFeed:
		if !strings.Contains(c.Listing.FeedTemplate, PagePlaceholder) {
			return fmt.Errorf("%w: feed template must contain %s", ErrInvalidConfig, PagePlaceholder)
		}
	default:
		return fmt.Errorf("%w: unknown listing mode %q", ErrInvalidConfig, c.Listing.Mode)
	}

	if c.Article.ContainerSelector == "" {
		missing = append(missing, "article.container_selector")
	}
	if c.Article.TitleSelector == "" {
		missing = append(missing, "article.title_selector")
	}
	if c.Article.DateSelector == "" {
		missing = append(missing, "article.date_selector")
	}
	if c.Article.BodySelector == "" {
		missing = append(missing, "article.body_selector")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}

	return nil
}

// ListingTemplate returns the URL template for the configured listing mode.
func (c *SiteConfig) ListingTemplate() string {
	if c.Listing.Mode == ModeFeed {
		return c.Listing.FeedTemplate
	}
	return c.Listing.Template
}

// ReadyOrCard returns the selector awaited before cards are scanned,
// falling back to the card selector.
func (l ListConfig) ReadyOrCard() string {
	if l.ReadySelector != "" {
		return l.ReadySelector
	}
	return l.CardSelector
}
