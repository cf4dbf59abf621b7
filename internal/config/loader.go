package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("HARVESTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("harvester")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".harvester"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The enrichment credential is only ever read from the environment.
	if key := os.Getenv("HARVESTER_ENRICH_API_KEY"); key != "" {
		cfg.Enrich.APIKey = key
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.port", cfg.Server.Port)

	v.SetDefault("fetcher.request_timeout", cfg.Fetcher.RequestTimeout)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.user_agents", cfg.Fetcher.UserAgents)
	v.SetDefault("fetcher.browser_timeout", cfg.Fetcher.BrowserTimeout)
	v.SetDefault("fetcher.browser_settle", cfg.Fetcher.BrowserSettle)
	v.SetDefault("fetcher.browser_stealth", cfg.Fetcher.BrowserStealth)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)

	v.SetDefault("scraper.parallelism", cfg.Scraper.Parallelism)
	v.SetDefault("scraper.enrich_concurrency", cfg.Scraper.EnrichConcurrency)
	v.SetDefault("scraper.min_content_length", cfg.Scraper.MinContentLength)
	v.SetDefault("scraper.watch_spec", cfg.Scraper.WatchSpec)

	v.SetDefault("enrich.provider", cfg.Enrich.Provider)
	v.SetDefault("enrich.model", cfg.Enrich.Model)
	v.SetDefault("enrich.max_tokens", cfg.Enrich.MaxTokens)
	v.SetDefault("enrich.temperature", cfg.Enrich.Temperature)
	v.SetDefault("enrich.timeout", cfg.Enrich.Timeout)
	v.SetDefault("enrich.requests_per_second", cfg.Enrich.RequestsPerSecond)
	v.SetDefault("enrich.burst", cfg.Enrich.Burst)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.database", cfg.Storage.Database)
	v.SetDefault("storage.collection", cfg.Storage.Collection)
	v.SetDefault("storage.max_articles", cfg.Storage.MaxArticles)

	v.SetDefault("tracker.type", cfg.Tracker.Type)
	v.SetDefault("tracker.addr", cfg.Tracker.Addr)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
