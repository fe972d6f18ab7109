package main

import (
	"fmt"
	"os"

	"github.com/pevans/techcrunch-parser/config"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func listAction(c *cli.Context) error {
	cfg, err := config.Resolve(c.String("config"))
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer store.Close()

	result, err := store.List(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	// Report any partial failures after displaying results
	defer func() {
		if len(result.Errors) > 0 {
			fmt.Fprintf(os.Stderr, "\nWarning: %d document(s) could not be read:\n", len(result.Errors))
			for _, readErr := range result.Errors {
				fmt.Fprintf(os.Stderr, "  %s\n", readErr.Error())
			}
		}
	}()

	switch c.String("format") {
	case "json":
		return printListJSON(os.Stdout, result.Documents)
	case "table":
		printListTable(os.Stdout, result.Documents)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", c.String("format"))
	}
}

func selectorsAction(c *cli.Context) error {
	cfg, err := config.Resolve(c.String("config"))
	if err != nil {
		return err
	}

	site, err := loadSite(cfg)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(site)
	if err != nil {
		return fmt.Errorf("failed to marshal site config: %w", err)
	}

	fmt.Print(string(data))
	return nil
}
