package types

import (
	"time"
)

// AIAnalysis holds the derived signals attached to an article.
type AIAnalysis struct {
	Sentiment          string   `json:"sentiment"`
	Keywords           []string `json:"keywords"`
	ReadingTimeMinutes int      `json:"readingTimeMinutes"`
	RelevanceScore     float64  `json:"relevanceScore"`
}

// Article is a fully enriched, stored news article.
type Article struct {
	// ID is a randomly generated identifier.
	ID string `json:"id" bson:"_id"`

	// Title is the headline extracted from the source listing.
	Title string `json:"title" bson:"title"`

	// Summary is a 1-2 sentence synopsis.
	Summary string `json:"summary" bson:"summary"`

	// Content is the article body text.
	Content string `json:"content" bson:"content"`

	// Date is the publication time, normalized from the source's raw date string.
	Date time.Time `json:"date" bson:"date"`

	// SourceURL is the absolute URL of the article page.
	SourceURL string `json:"sourceUrl" bson:"source_url"`

	// SourceName identifies which configured source produced this article.
	SourceName string `json:"sourceName" bson:"source_name"`

	// CategoryID references an entry in the category registry.
	CategoryID string `json:"categoryId" bson:"category_id"`

	// TagIDs reference entries in the tag vocabulary.
	TagIDs []string `json:"tagIds" bson:"tag_ids"`

	// Slug is derived deterministically from the title. Not guaranteed unique.
	Slug string `json:"slug" bson:"slug"`

	// Featured is set on the first accepted article per source per cycle.
	Featured bool `json:"featured" bson:"featured"`

	// ImageURL is the resolved absolute image URL, if any.
	ImageURL string `json:"imageUrl,omitempty" bson:"image_url,omitempty"`

	Analysis AIAnalysis `json:"aiAnalysis" bson:"ai_analysis"`
}

// Draft is a candidate article pulled off a listing page. It lives only
// within a single scrape cycle; the enricher either promotes it to an
// Article or drops it.
type Draft struct {
	Title    string
	Content  string
	ImageURL string
	LinkURL  string
	RawDate  string
}

// Category is an entry in the fixed category registry.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tag is an entry in the fixed tag vocabulary.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
