package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/miastoportal/harvester/internal/api"
	"github.com/miastoportal/harvester/internal/config"
	"github.com/miastoportal/harvester/internal/enrich"
	"github.com/miastoportal/harvester/internal/extractor"
	"github.com/miastoportal/harvester/internal/fetcher"
	"github.com/miastoportal/harvester/internal/registry"
	"github.com/miastoportal/harvester/internal/scraper"
	"github.com/miastoportal/harvester/internal/store"
	"github.com/miastoportal/harvester/internal/tracker"
)

var (
	cfgFile    string
	verbose    bool
	sourceName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "harvester",
		Short: "Harvester — municipal news portal scraping pipeline",
		Long: `Harvester scrapes configured municipal news sites, classifies the
articles into a fixed category and tag taxonomy, and serves them over a
small HTTP API. Without an enrichment credential it runs in demo mode
with randomized classification.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the scrape trigger endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cfg, err := setup()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := buildPipeline(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			server := api.NewServer(cfg.Server, p.orch, p.store, p.taxonomy, p.registry, logger)
			logger.Info("harvester starting", "version", config.Version, "sources", len(cfg.Sources))
			return server.Run(ctx)
		},
	}
}

// scrapeCmd creates the "scrape" subcommand for one-shot runs.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one scrape cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cfg, err := setup()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := buildPipeline(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			var results []scraper.SourceResult
			if sourceName != "" {
				result, err := p.orch.ScrapeByName(ctx, sourceName)
				if err != nil {
					return err
				}
				results = []scraper.SourceResult{result}
			} else {
				results = p.orch.ScrapeAll(ctx)
			}

			failed := 0
			for _, r := range results {
				if r.Skipped {
					fmt.Printf("  %-24s skipped (scraped recently)\n", r.Source)
					continue
				}
				if r.Err != nil {
					failed++
					fmt.Printf("  %-24s FAILED: %v\n", r.Source, r.Err)
					continue
				}
				fmt.Printf("  %-24s %d articles\n", r.Source, r.Articles)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d sources failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&sourceName, "source", "s", "", "scrape only the named source")
	return cmd
}

// watchCmd creates the "watch" subcommand: a long-running cron loop that
// scrapes all sources on the configured schedule.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Scrape all sources on a cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cfg, err := setup()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := buildPipeline(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			c := cron.New()
			_, err = c.AddFunc(cfg.Scraper.WatchSpec, func() {
				results := p.orch.ScrapeAll(ctx)
				for _, r := range results {
					if r.Err != nil && !r.Skipped {
						logger.Error("scheduled scrape failed", "source", r.Source, "error", r.Err)
					}
				}
			})
			if err != nil {
				return fmt.Errorf("invalid watch schedule %q: %w", cfg.Scraper.WatchSpec, err)
			}

			logger.Info("watch loop started", "schedule", cfg.Scraper.WatchSpec)
			c.Start()
			<-ctx.Done()
			<-c.Stop().Done()
			return nil
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Server:\n")
			fmt.Printf("  Port:              %d\n", cfg.Server.Port)
			fmt.Printf("\nScraper:\n")
			fmt.Printf("  Parallelism:       %d\n", cfg.Scraper.Parallelism)
			fmt.Printf("  Enrich Workers:    %d\n", cfg.Scraper.EnrichConcurrency)
			fmt.Printf("  Min Content:       %d chars\n", cfg.Scraper.MinContentLength)
			fmt.Printf("  Watch Schedule:    %s\n", cfg.Scraper.WatchSpec)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Browser Timeout:   %s\n", cfg.Fetcher.BrowserTimeout)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("  User Agents:       %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("\nEnrichment:\n")
			fmt.Printf("  Provider:          %s\n", cfg.Enrich.Provider)
			fmt.Printf("  Model:             %s\n", cfg.Enrich.Model)
			fmt.Printf("  Credential:        %v\n", cfg.Enrich.APIKey != "")
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Max Articles:      %d\n", cfg.Storage.MaxArticles)
			fmt.Printf("\nTracker:\n")
			fmt.Printf("  Type:              %s\n", cfg.Tracker.Type)
			fmt.Printf("\nSources:\n")
			for _, src := range cfg.Sources {
				out, _ := json.Marshal(src)
				fmt.Printf("  %s\n", out)
			}
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Harvester %s\n", config.Version)
		},
	}
}

// setup loads .env, the config file and the logger shared by every
// subcommand.
func setup() (*slog.Logger, *config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return setupLogger(cfg.Logging), cfg, nil
}

// setupLogger creates a structured logger.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// pipeline bundles the constructed stages so subcommands share one
// assembly path.
type pipeline struct {
	orch     *scraper.Orchestrator
	store    store.ArticleStore
	taxonomy *store.Taxonomy
	registry *registry.SourceRegistry
	tracker  tracker.Tracker
}

func (p *pipeline) Close() {
	p.orch.Close()
	p.store.Close(context.Background())
	p.tracker.Close()
}

// buildPipeline constructs every stage from config: fetchers, extractor,
// enricher, storage and tracker backends, then the orchestrator on top.
func buildPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	httpFetcher, err := fetcher.NewHTTPFetcher(&cfg.Fetcher, logger)
	if err != nil {
		return nil, fmt.Errorf("create http fetcher: %w", err)
	}
	browserFetcher := fetcher.NewBrowserFetcher(&cfg.Fetcher, logger)

	taxonomy := store.DefaultTaxonomy()
	enricher := enrich.New(cfg.Enrich, taxonomy.CategoryIDs(), taxonomy.TagIDs(), logger)

	var articleStore store.ArticleStore
	switch cfg.Storage.Type {
	case "mongo":
		articleStore, err = store.NewMongoStore(ctx, cfg.Storage.URI, cfg.Storage.Database, cfg.Storage.Collection, cfg.Storage.MaxArticles, logger)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
	default:
		articleStore = store.NewMemoryStore(cfg.Storage.MaxArticles, logger)
	}

	var trk tracker.Tracker
	switch cfg.Tracker.Type {
	case "redis":
		trk, err = tracker.NewRedisTracker(ctx, cfg.Tracker.Addr, cfg.Tracker.Password, cfg.Tracker.DB)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	default:
		trk = tracker.NewMemoryTracker()
	}

	reg := registry.New(cfg.Sources)
	orch := scraper.New(cfg.Scraper, reg, httpFetcher, browserFetcher, extractor.New(logger), enricher, articleStore, trk, logger)

	return &pipeline{
		orch:     orch,
		store:    articleStore,
		taxonomy: taxonomy,
		registry: reg,
		tracker:  trk,
	}, nil
}
