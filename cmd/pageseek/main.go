// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/poiesic/pageseek"
	"github.com/poiesic/pageseek/core"
	"github.com/poiesic/pageseek/ingestion"
	"github.com/poiesic/pageseek/overlay"
	"github.com/poiesic/pageseek/reindex"
	"github.com/poiesic/pageseek/search"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// fileConfig holds the optional YAML config file settings. Flags take
// precedence over the file.
type fileConfig struct {
	DB         string `yaml:"db"`
	Root       string `yaml:"root"`
	Addr       string `yaml:"addr"`
	PageCap    int    `yaml:"pageCap"`
	MaxResults int    `yaml:"maxResults"`
}

var cfg fileConfig

func main() {
	app := &cli.App{
		Name:  "pageseek",
		Usage: "Full-text search index for static HTML sites",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Index a directory of HTML pages into the store",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:    "root",
						Aliases: []string{"r"},
						Usage:   "Site root directory to index",
					},
					&cli.BoolFlag{
						Name:  "skip-unchanged",
						Usage: "Skip pages whose content fingerprint is unchanged",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Worker pool size for concurrent indexing",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the stored pages",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:  "page",
						Usage: "Path of the page considered current, for ranking",
						Value: "/",
					},
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Maximum number of results",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the search API over HTTP",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:    "root",
						Aliases: []string{"r"},
						Usage:   "Site root directory served as the viewport",
					},
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild every stored page from the site root",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:    "root",
						Aliases: []string{"r"},
						Usage:   "Site root directory to re-read pages from",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of pages to process in each batch",
						Value: 25,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N pages",
						Value: 25,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed file reads",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 100 * time.Millisecond,
					},
				},
			},
			{
				Name:   "pages",
				Usage:  "List the stored pages in insertion order",
				Action: pagesCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) error {
	if err := setupLogger(c); err != nil {
		return err
	}
	return loadConfig(c)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func loadConfig(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// setting returns the flag value when set, then the config file value,
// then the fallback.
func setting(flagValue, configValue, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if configValue != "" {
		return configValue
	}
	return fallback
}

func openIndex(c *cli.Context) (*pageseek.Index, error) {
	dbPath := setting(c.String("db"), cfg.DB, "")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required (--db or config file)")
	}

	var opts []pageseek.IndexOption
	if cfg.PageCap > 0 {
		opts = append(opts, pageseek.WithPageCap(cfg.PageCap))
	}

	ix, err := pageseek.Open(dbPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return ix, nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	root := setting(c.String("root"), cfg.Root, "")
	if root == "" {
		return fmt.Errorf("site root is required (--root or config file)")
	}

	ix, err := openIndex(c)
	if err != nil {
		return err
	}
	defer ix.Close()

	var pipelineOpts []ingestion.Option
	if c.Int("workers") > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(c.Int("workers")))
	}

	pipeline, err := ix.NewIngestionPipeline(pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	report, err := pipeline.IndexDir(ctx, root, &ingestion.IndexOptions{
		SkipUnchanged: c.Bool("skip-unchanged"),
	})
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d pages, skipped %d, failed %d\n",
		report.Indexed, report.Skipped, report.Failed)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is required")
	}

	ix, err := openIndex(c)
	if err != nil {
		return err
	}
	defer ix.Close()

	var searchOpts []search.Option
	switch {
	case c.Int("max-results") > 0:
		searchOpts = append(searchOpts, search.WithMaxResults(c.Int("max-results")))
	case cfg.MaxResults > 0:
		searchOpts = append(searchOpts, search.WithMaxResults(cfg.MaxResults))
	}

	searcher, err := ix.NewSearcher(searchOpts...)
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	currentPageID := core.PageIDFromPath(c.String("page"))
	matches, err := searcher.Search(ctx, search.NormalizeQuery(query), currentPageID)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(matches) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for i, m := range matches {
		marker := " "
		if m.IsCurrentPage {
			marker = "*"
		}
		fmt.Printf("%2d. [%d]%s %s | %s (%s)\n",
			i+1, m.Relevance, marker, m.Title, m.PageTitle, m.PageURL)
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	root := setting(c.String("root"), cfg.Root, "")
	if root == "" {
		return fmt.Errorf("site root is required (--root or config file)")
	}
	addr := setting(c.String("addr"), cfg.Addr, ":8080")

	ix, err := openIndex(c)
	if err != nil {
		return err
	}
	defer ix.Close()

	viewport, err := overlay.NewSiteViewport(root, "/index.html")
	if err != nil {
		return fmt.Errorf("failed to open viewport: %w", err)
	}

	controller, err := ix.NewOverlay(viewport)
	if err != nil {
		return fmt.Errorf("failed to create overlay: %w", err)
	}
	defer controller.Close()

	handler := overlay.NewHandler(controller, slog.Default())

	slog.Info("serving search API", "addr", addr, "root", root)
	if err := http.ListenAndServe(addr, handler); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	root := setting(c.String("root"), cfg.Root, "")
	if root == "" {
		return fmt.Errorf("site root is required (--root or config file)")
	}

	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	ix, err := openIndex(c)
	if err != nil {
		return err
	}
	defer ix.Close()

	reindexer := ix.NewReindexer(root, reindexConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Site root: %s\n\n", root)
	if err := reindexer.Run(ctx); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	return nil
}

func pagesCommand(c *cli.Context) error {
	ctx := context.Background()

	ix, err := openIndex(c)
	if err != nil {
		return err
	}
	defer ix.Close()

	records, err := ix.Pages().AllPages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("Store is empty.")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%-30s %-40s %3d units  %s\n",
			r.PageID, r.Title, len(r.Units), r.Timestamp.Format(time.RFC3339))
	}
	return nil
}
