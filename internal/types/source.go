package types

import (
	"time"
)

// SelectorSet maps the logical article fields to selectors. Selectors are
// CSS by default; a "xpath:" prefix switches that selector to XPath.
type SelectorSet struct {
	// Articles locates the candidate elements on the listing page.
	Articles string `mapstructure:"articles" yaml:"articles" json:"articles"`

	// Title, Content and Date are evaluated relative to each candidate.
	Title   string `mapstructure:"title"   yaml:"title"   json:"title"`
	Content string `mapstructure:"content" yaml:"content" json:"content"`
	Date    string `mapstructure:"date"    yaml:"date"    json:"date"`

	// Image and Link are optional; missing attributes yield empty values.
	Image string `mapstructure:"image" yaml:"image" json:"image,omitempty"`
	Link  string `mapstructure:"link"  yaml:"link"  json:"link,omitempty"`
}

// SourceConfig describes one site to scrape. Name is the join key used by
// the tracker, the admin surface and removal; no numeric ID exists.
type SourceConfig struct {
	Name           string        `mapstructure:"name"            yaml:"name"            json:"sourceName"`
	URL            string        `mapstructure:"url"             yaml:"url"             json:"sourceUrl"`
	Selectors      SelectorSet   `mapstructure:"selectors"       yaml:"selectors"       json:"selectors"`
	ScrapeInterval time.Duration `mapstructure:"scrape_interval" yaml:"scrape_interval" json:"scrapeInterval"`

	// UseBrowser selects the headless-browser fetcher for JS-rendered sites.
	UseBrowser bool `mapstructure:"use_browser" yaml:"use_browser" json:"useHeadlessBrowser"`

	// FollowLinks re-fetches each candidate's own page for richer content.
	FollowLinks bool `mapstructure:"follow_links" yaml:"follow_links" json:"followLinks"`
}
