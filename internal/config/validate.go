package config

import (
	"fmt"
	"net/url"

	"github.com/miastoportal/harvester/internal/types"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", cfg.Server.Port)
	}

	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.Scraper.Parallelism < 1 {
		return fmt.Errorf("scraper.parallelism must be >= 1, got %d", cfg.Scraper.Parallelism)
	}
	if cfg.Scraper.EnrichConcurrency < 1 {
		return fmt.Errorf("scraper.enrich_concurrency must be >= 1, got %d", cfg.Scraper.EnrichConcurrency)
	}
	if cfg.Scraper.MinContentLength < 0 {
		return fmt.Errorf("scraper.min_content_length must be >= 0")
	}

	if cfg.Storage.Type != "memory" && cfg.Storage.Type != "mongo" {
		return fmt.Errorf("storage.type must be 'memory' or 'mongo', got %q", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "mongo" && cfg.Storage.URI == "" {
		return fmt.Errorf("storage.uri is required when storage.type is 'mongo'")
	}
	if cfg.Storage.MaxArticles < 1 {
		return fmt.Errorf("storage.max_articles must be >= 1, got %d", cfg.Storage.MaxArticles)
	}

	if cfg.Tracker.Type != "memory" && cfg.Tracker.Type != "redis" {
		return fmt.Errorf("tracker.type must be 'memory' or 'redis', got %q", cfg.Tracker.Type)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	seen := make(map[string]bool, len(cfg.Sources))
	for _, src := range cfg.Sources {
		if err := ValidateSource(src); err != nil {
			return fmt.Errorf("source %q: %w", src.Name, err)
		}
		if seen[src.Name] {
			return fmt.Errorf("duplicate source name %q", src.Name)
		}
		seen[src.Name] = true
	}

	return nil
}

// ValidateSource rejects malformed source configurations before they reach
// the pipeline.
func ValidateSource(src types.SourceConfig) error {
	if src.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := ValidateURL(src.URL); err != nil {
		return err
	}
	if src.Selectors.Articles == "" {
		return fmt.Errorf("selectors.articles is required")
	}
	if src.Selectors.Title == "" {
		return fmt.Errorf("selectors.title is required")
	}
	if src.ScrapeInterval <= 0 {
		return fmt.Errorf("scrape_interval must be > 0, got %s", src.ScrapeInterval)
	}
	return nil
}

// ValidateURL checks if a URL string is valid for scraping.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
