package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/pevans/techcrunch-parser/browser"
	"github.com/pevans/techcrunch-parser/config"
	"github.com/pevans/techcrunch-parser/document"
	"github.com/pevans/techcrunch-parser/enrich"
	"github.com/pevans/techcrunch-parser/logger"
	"github.com/pevans/techcrunch-parser/parser"
	"github.com/pevans/techcrunch-parser/plugin"
	"github.com/pevans/techcrunch-parser/scraper"
	"github.com/urfave/cli/v2"
)

func runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log := logger.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	site, err := loadSite(cfg)
	if err != nil {
		return err
	}

	restrictions, err := cfg.PluginRestrictions()
	if err != nil {
		return err
	}

	opts, err := parserOptions(cfg)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	b, err := openBrowser(cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	filter := plugin.NewFilter(restrictions, store, log)
	p, err := parser.New(parser.Config{
		Site:      site,
		Browser:   b,
		Acceptor:  filter,
		Options:   opts,
		Logger:    log,
		UserAgent: cfg.Browser.UserAgent,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	outcome := p.Parse(ctx)
	printOutcome(os.Stdout, outcome, filter.Accepted(), filter.Duplicates())

	return exitError(outcome)
}

// loadConfig resolves the config file and lays the command line flags over
// it.
func loadConfig(c *cli.Context) (*config.FileConfig, error) {
	cfg, err := config.Resolve(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("from-date") {
		cfg.Restrictions.FromDate = c.String("from-date")
	}
	if c.IsSet("max-documents") {
		cfg.Restrictions.MaxDocuments = c.Int("max-documents")
	}
	if c.IsSet("browser") {
		cfg.Browser.Kind = c.String("browser")
	}
	if c.IsSet("storage") {
		cfg.Storage.Type = c.String("storage")
	}
	if c.IsSet("dsn") {
		cfg.Storage.DSN = c.String("dsn")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadSite(cfg *config.FileConfig) (*scraper.SiteConfig, error) {
	if cfg.Site == "" {
		return scraper.Default(), nil
	}
	return scraper.Load(cfg.Site)
}

func parserOptions(cfg *config.FileConfig) (parser.Options, error) {
	opts := parser.Options{
		PageDelay:           cfg.Timing.PageDelay,
		WaitTimeout:         cfg.Timing.WaitTimeout,
		ArticleWait:         cfg.Timing.ArticleWait,
		CookieWait:          cfg.Timing.CookieWait,
		PollInterval:        cfg.Timing.PollInterval,
		StrictFields:        cfg.Extraction.StrictFields,
		ReadabilityFallback: cfg.Extraction.ReadabilityFallback,
	}

	if len(cfg.Extraction.Languages) > 0 {
		languages, err := enrich.NewLanguages(cfg.Extraction.Languages, true)
		if err != nil {
			return opts, err
		}
		opts.Languages = languages
	}

	return opts, nil
}

func openStore(cfg *config.FileConfig) (document.Store, error) {
	switch cfg.Storage.Type {
	case config.StorageSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DSN), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		return document.NewSQLiteStore(cfg.Storage.DSN)
	default:
		return document.NewFileStore(cfg.Storage.DSN)
	}
}

func openBrowser(cfg *config.FileConfig) (browser.Browser, error) {
	switch cfg.Browser.Kind {
	case config.BrowserChrome:
		return browser.NewChrome(browser.ChromeOptions{
			ExecPath:  cfg.Browser.ExecPath,
			UserAgent: cfg.Browser.UserAgent,
			Headless:  cfg.Browser.Headless,
			Timeout:   cfg.Browser.Timeout,
		})
	default:
		return browser.NewHTTP(browser.HTTPOptions{
			Timeout:   cfg.Browser.Timeout,
			UserAgent: cfg.Browser.UserAgent,
		}), nil
	}
}

// exitError maps a finished run to the process exit status. Reaching the
// configured document limit is a normal end for this host.
func exitError(outcome plugin.Outcome) error {
	if outcome.Graceful() {
		return nil
	}
	if kind, ok := outcome.Restriction(); ok && outcome.Status == plugin.Escalated && kind == plugin.MaxDocuments {
		return nil
	}
	return cli.Exit(fmt.Sprintf("Error: %v", outcome.Err()), 1)
}
