package config

import (
	"time"

	"github.com/miastoportal/harvester/internal/types"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for harvester.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Scraper ScraperConfig `mapstructure:"scraper" yaml:"scraper"`
	Enrich  EnrichConfig  `mapstructure:"enrich"  yaml:"enrich"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Tracker TrackerConfig `mapstructure:"tracker" yaml:"tracker"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Sources is the initial source registry. Admin edits are in-memory;
	// a restart reverts to this list.
	Sources []types.SourceConfig `mapstructure:"sources" yaml:"sources"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// FetcherConfig controls page retrieval.
type FetcherConfig struct {
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  yaml:"request_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"    yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"     yaml:"tls_insecure"`
	UserAgents      []string      `mapstructure:"user_agents"      yaml:"user_agents"`
	BrowserTimeout  time.Duration `mapstructure:"browser_timeout"  yaml:"browser_timeout"`
	BrowserSettle   time.Duration `mapstructure:"browser_settle"   yaml:"browser_settle"`
	BrowserStealth  bool          `mapstructure:"browser_stealth"  yaml:"browser_stealth"`
	FollowRedirects bool          `mapstructure:"follow_redirects" yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"    yaml:"max_redirects"`
}

// ScraperConfig controls the orchestrator.
type ScraperConfig struct {
	// Parallelism is the number of sources scraped at once. 1 keeps the
	// strictly sequential default.
	Parallelism int `mapstructure:"parallelism" yaml:"parallelism"`

	// EnrichConcurrency bounds candidates enriched at once within a source.
	EnrichConcurrency int `mapstructure:"enrich_concurrency" yaml:"enrich_concurrency"`

	// MinContentLength is the quality gate below which candidates are dropped.
	MinContentLength int `mapstructure:"min_content_length" yaml:"min_content_length"`

	// WatchSpec is the cron expression used by the watch command.
	WatchSpec string `mapstructure:"watch_spec" yaml:"watch_spec"`
}

// EnrichConfig controls LLM-backed enrichment. An empty APIKey selects the
// fallback enricher for every call; that is a supported mode, not an error.
type EnrichConfig struct {
	Provider    string        `mapstructure:"provider"    yaml:"provider"`
	Endpoint    string        `mapstructure:"endpoint"    yaml:"endpoint"`
	Model       string        `mapstructure:"model"       yaml:"model"`
	APIKey      string        `mapstructure:"api_key"     yaml:"api_key"`
	MaxTokens   int           `mapstructure:"max_tokens"  yaml:"max_tokens"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"     yaml:"timeout"`

	// RequestsPerSecond and Burst bound outgoing enrichment calls so a large
	// cycle does not trample the credential's rate limits.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `mapstructure:"burst"               yaml:"burst"`
}

// StorageConfig selects the article store backend.
type StorageConfig struct {
	Type        string `mapstructure:"type"         yaml:"type"` // memory, mongo
	URI         string `mapstructure:"uri"          yaml:"uri"`
	Database    string `mapstructure:"database"     yaml:"database"`
	Collection  string `mapstructure:"collection"   yaml:"collection"`
	MaxArticles int    `mapstructure:"max_articles" yaml:"max_articles"`
}

// TrackerConfig selects the dedup/staleness tracker backend.
type TrackerConfig struct {
	Type     string `mapstructure:"type"     yaml:"type"` // memory, redis
	Addr     string `mapstructure:"addr"     yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db"       yaml:"db"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Fetcher: FetcherConfig{
			RequestTimeout:  30 * time.Second,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			BrowserTimeout:  30 * time.Second,
			BrowserSettle:   2 * time.Second,
			FollowRedirects: true,
			MaxRedirects:    10,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Scraper: ScraperConfig{
			Parallelism:       1,
			EnrichConcurrency: 4,
			MinContentLength:  20,
			WatchSpec:         "*/30 * * * *",
		},
		Enrich: EnrichConfig{
			Provider:          "openai",
			Model:             "gpt-4o-mini",
			MaxTokens:         256,
			Temperature:       0.2,
			Timeout:           60 * time.Second,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Storage: StorageConfig{
			Type:        "memory",
			Database:    "harvester",
			Collection:  "articles",
			MaxArticles: 100,
		},
		Tracker: TrackerConfig{
			Type: "memory",
			Addr: "localhost:6379",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Sources: DefaultSources(),
	}
}

// DefaultSources is the hardcoded source list the registry is seeded with.
func DefaultSources() []types.SourceConfig {
	return []types.SourceConfig{
		{
			Name: "Urząd Miasta",
			URL:  "https://um.miastoportal.pl/aktualnosci",
			Selectors: types.SelectorSet{
				Articles: ".news-list .news-item",
				Title:    ".news-title",
				Content:  ".news-lead",
				Date:     ".news-date",
				Image:    "img",
				Link:     "a",
			},
			ScrapeInterval: 60 * time.Minute,
			FollowLinks:    true,
		},
		{
			Name: "Centrum Kultury",
			URL:  "https://ck.miastoportal.pl/wydarzenia",
			Selectors: types.SelectorSet{
				Articles: "article.event",
				Title:    "h2",
				Content:  ".event-description",
				Date:     "time",
				Image:    ".event-poster img",
				Link:     "a.event-link",
			},
			ScrapeInterval: 120 * time.Minute,
			UseBrowser:     true,
		},
	}
}
