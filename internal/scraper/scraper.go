package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/miastoportal/harvester/internal/config"
	"github.com/miastoportal/harvester/internal/enrich"
	"github.com/miastoportal/harvester/internal/extractor"
	"github.com/miastoportal/harvester/internal/fetcher"
	"github.com/miastoportal/harvester/internal/registry"
	"github.com/miastoportal/harvester/internal/store"
	"github.com/miastoportal/harvester/internal/tracker"
	"github.com/miastoportal/harvester/internal/types"
)

// SourceResult summarizes one source's outcome within a cycle.
type SourceResult struct {
	Source   string `json:"source"`
	Articles int    `json:"articles"`
	Skipped  bool   `json:"skipped"`
	Err      error  `json:"-"`
}

// Orchestrator runs the fetch, extract, enrich, store pipeline for
// registered sources. One orchestrator is shared by the HTTP trigger and
// the watch loop; per-cycle state lives on the stack of ScrapeOne.
type Orchestrator struct {
	cfg      config.ScraperConfig
	registry *registry.SourceRegistry
	http     fetcher.Fetcher
	browser  fetcher.Fetcher
	extract  *extractor.Extractor
	enricher enrich.Enricher
	store    store.ArticleStore
	tracker  tracker.Tracker
	logger   *slog.Logger

	// Serializes store appends and tracker commits when sources run in
	// parallel, so each source's articles land in document order.
	commitMu sync.Mutex
}

// New assembles an orchestrator from the already-constructed pipeline
// stages.
func New(cfg config.ScraperConfig, reg *registry.SourceRegistry, httpFetcher, browserFetcher fetcher.Fetcher, ext *extractor.Extractor, enricher enrich.Enricher, st store.ArticleStore, trk tracker.Tracker, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		registry: reg,
		http:     httpFetcher,
		browser:  browserFetcher,
		extract:  ext,
		enricher: enricher,
		store:    st,
		tracker:  trk,
		logger:   logger.With("component", "scraper"),
	}
}

// ScrapeAll runs a full cycle over every registered source. A failing
// source never aborts the cycle; its error is carried in its result.
func (o *Orchestrator) ScrapeAll(ctx context.Context) []SourceResult {
	sources := o.registry.List()
	results := make([]SourceResult, len(sources))

	if o.cfg.Parallelism <= 1 {
		for i, src := range sources {
			results[i] = o.ScrapeOne(ctx, src)
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Parallelism)
	for i, src := range sources {
		g.Go(func() error {
			results[i] = o.ScrapeOne(gctx, src)
			return nil
		})
	}
	g.Wait()
	return results
}

// ScrapeByName runs one cycle for the named source only.
func (o *Orchestrator) ScrapeByName(ctx context.Context, name string) (SourceResult, error) {
	src, ok := o.registry.Get(name)
	if !ok {
		return SourceResult{}, fmt.Errorf("%w: %q", types.ErrSourceNotFound, name)
	}
	return o.ScrapeOne(ctx, src), nil
}

// ScrapeOne runs the pipeline for a single source. It recovers from
// panics in any stage so a malformed page or a misbehaving extractor
// cannot take down the trigger endpoint.
func (o *Orchestrator) ScrapeOne(ctx context.Context, src types.SourceConfig) (result SourceResult) {
	result.Source = src.Name
	log := o.logger.With("source", src.Name)

	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("scrape panicked: %v", r)
			log.Error("scrape panicked", "panic", r)
		}
	}()

	skip, err := o.tracker.ShouldSkipSource(ctx, src.Name, src.ScrapeInterval)
	if err != nil {
		log.Warn("tracker lookup failed, scraping anyway", "error", err)
	}
	if skip {
		log.Info("source scraped recently, skipping", "interval", src.ScrapeInterval)
		result.Skipped = true
		result.Err = types.ErrSkippedFresh
		return result
	}

	body, err := o.fetcherFor(src).Fetch(ctx, src.URL)
	if err != nil {
		result.Err = fmt.Errorf("fetch listing: %w", err)
		log.Error("listing fetch failed", "url", src.URL, "error", err)
		return result
	}

	drafts, err := o.extract.Extract(body, src.URL, src.Selectors)
	if err != nil {
		result.Err = fmt.Errorf("extract listing: %w", err)
		log.Error("listing extraction failed", "error", err)
		return result
	}
	log.Info("extracted candidates", "count", len(drafts))

	articles, touched := o.processDrafts(ctx, src, drafts, log)

	// Articles append in document order; the first accepted candidate of
	// the cycle is the source's featured article.
	o.commitMu.Lock()
	defer o.commitMu.Unlock()
	for i, article := range articles {
		article.Featured = i == 0
		if err := o.store.Append(ctx, article); err != nil {
			log.Error("store append failed", "slug", article.Slug, "error", err)
			continue
		}
		result.Articles++
	}

	if err := o.tracker.Commit(ctx, src.Name, touched); err != nil {
		log.Warn("tracker commit failed", "error", err)
	}

	log.Info("source cycle complete", "stored", result.Articles, "touched", len(touched))
	return result
}

// processDrafts enriches candidates concurrently but returns accepted
// articles and touched URLs in document order. Skipped duplicates still
// count as touched so the next cycle keeps skipping them.
func (o *Orchestrator) processDrafts(ctx context.Context, src types.SourceConfig, drafts []types.Draft, log *slog.Logger) ([]*types.Article, []string) {
	type slot struct {
		article *types.Article
		url     string
	}
	slots := make([]slot, len(drafts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.EnrichConcurrency)
	for i, draft := range drafts {
		g.Go(func() error {
			article, err := o.buildArticle(gctx, src, draft, log)
			if err != nil {
				if !errors.Is(err, types.ErrDuplicateURL) && !errors.Is(err, types.ErrContentTooShort) {
					log.Warn("candidate dropped", "title", draft.Title, "error", err)
				}
				// Duplicates stay in the touched set; hard failures do
				// not, so the URL is retried next cycle.
				if errors.Is(err, types.ErrDuplicateURL) || errors.Is(err, types.ErrContentTooShort) {
					slots[i] = slot{url: candidateURL(src, draft)}
				}
				return nil
			}
			slots[i] = slot{article: article, url: article.SourceURL}
			return nil
		})
	}
	g.Wait()

	var articles []*types.Article
	var touched []string
	for _, s := range slots {
		if s.url != "" {
			touched = append(touched, s.url)
		}
		if s.article != nil {
			articles = append(articles, s.article)
		}
	}
	return articles, touched
}

// buildArticle turns one listing candidate into a fully enriched article.
func (o *Orchestrator) buildArticle(ctx context.Context, src types.SourceConfig, draft types.Draft, log *slog.Logger) (*types.Article, error) {
	url := candidateURL(src, draft)

	skip, err := o.tracker.ShouldSkipURL(ctx, src.Name, url)
	if err != nil {
		log.Warn("url lookup failed, processing anyway", "url", url, "error", err)
	}
	if skip {
		log.Debug("url already scraped", "url", url)
		return nil, types.ErrDuplicateURL
	}

	content := draft.Content
	imageURL := draft.ImageURL
	if src.FollowLinks && draft.LinkURL != "" {
		// Detail values override the listing's. A failed detail fetch
		// leaves the fields empty; the length gate below decides whether
		// the candidate survives.
		content, imageURL = o.fetchDetail(ctx, src, draft.LinkURL, log)
	}

	if len([]rune(content)) < o.cfg.MinContentLength {
		log.Debug("content below minimum length", "title", draft.Title, "length", len([]rune(content)))
		return nil, types.ErrContentTooShort
	}

	analysis := o.enricher.Analyze(ctx, draft.Title, content)
	return &types.Article{
		ID:         uuid.NewString(),
		Title:      draft.Title,
		Summary:    o.enricher.Summarize(ctx, content),
		Content:    content,
		Date:       enrich.NormalizeDate(draft.RawDate),
		SourceURL:  url,
		SourceName: src.Name,
		CategoryID: o.enricher.Categorize(ctx, draft.Title, content),
		TagIDs:     o.enricher.Tags(ctx, draft.Title, content),
		Slug:       enrich.Slugify(draft.Title),
		ImageURL:   imageURL,
		Analysis:   analysis,
	}, nil
}

// fetchDetail follows a candidate's link for the full text. Failures
// yield empty fields instead of an error.
func (o *Orchestrator) fetchDetail(ctx context.Context, src types.SourceConfig, linkURL string, log *slog.Logger) (content, imageURL string) {
	body, err := o.fetcherFor(src).Fetch(ctx, linkURL)
	if err != nil {
		log.Warn("detail fetch failed", "url", linkURL, "error", err)
		return "", ""
	}
	content, imageURL, err = o.extract.ExtractDetail(body, linkURL, src.Selectors)
	if err != nil {
		log.Warn("detail extraction failed", "url", linkURL, "error", err)
		return "", ""
	}
	return content, imageURL
}

func (o *Orchestrator) fetcherFor(src types.SourceConfig) fetcher.Fetcher {
	if src.UseBrowser {
		return o.browser
	}
	return o.http
}

// candidateURL is the dedup identity of a candidate: its resolved link
// when one exists, the listing URL otherwise.
func candidateURL(src types.SourceConfig, draft types.Draft) string {
	if draft.LinkURL != "" {
		return draft.LinkURL
	}
	return src.URL
}

// Close releases the fetchers.
func (o *Orchestrator) Close() error {
	var errs []error
	if err := o.http.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := o.browser.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
