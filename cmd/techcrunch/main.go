package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to config file (default: ~/.techcrunch/config.yaml)",
	}

	return &cli.App{
		Name:  "techcrunch",
		Usage: "Collect TechCrunch fintech articles into a local document store",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Walk the listing and store every new article",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{Name: "from-date", Usage: "oldest publication date to accept (e.g. 2024-05-01)"},
					&cli.IntFlag{Name: "max-documents", Usage: "stop after this many documents (0 = no limit)"},
					&cli.StringFlag{Name: "browser", Usage: "browser backend: http, chrome"},
					&cli.StringFlag{Name: "storage", Usage: "storage type: file, sqlite"},
					&cli.StringFlag{Name: "dsn", Usage: "storage location (directory or database file)"},
					&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn, error"},
				},
				Action: runAction,
			},
			{
				Name:  "list",
				Usage: "List stored documents, newest first",
				Flags: []cli.Flag{
					configFlag,
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum number of documents (0 = all)"},
					&cli.StringFlag{Name: "format", Value: "table", Usage: "output format: table, json"},
				},
				Action: listAction,
			},
			{
				Name:   "selectors",
				Usage:  "Print the effective site configuration as YAML",
				Flags:  []cli.Flag{configFlag},
				Action: selectorsAction,
			},
		},
	}
}
