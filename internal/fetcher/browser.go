package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/miastoportal/harvester/internal/config"
	"github.com/miastoportal/harvester/internal/types"
)

// BrowserFetcher implements Fetcher using a headless browser via Rod.
// Each fetch launches an isolated browser process and tears it down
// unconditionally, so a crashed navigation never leaks a Chromium process.
type BrowserFetcher struct {
	cfg    *config.FetcherConfig
	logger *slog.Logger
}

// NewBrowserFetcher creates a new headless browser fetcher.
func NewBrowserFetcher(cfg *config.FetcherConfig, logger *slog.Logger) *BrowserFetcher {
	return &BrowserFetcher{
		cfg:    cfg,
		logger: logger.With("component", "browser_fetcher"),
	}
}

// Fetch navigates to a URL and returns the rendered page content.
func (bf *BrowserFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	start := time.Now()

	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: fmt.Errorf("launch browser: %w", err), Retryable: true}
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, &types.FetchError{URL: rawURL, Err: fmt.Errorf("connect browser: %w", err), Retryable: true}
	}
	defer func() {
		_ = browser.Close()
		l.Cleanup()
	}()

	var page *rod.Page
	if bf.cfg.BrowserStealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: fmt.Errorf("open page: %w", err), Retryable: true}
	}

	timeout := bf.cfg.BrowserTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	if err := page.Timeout(timeout).Navigate(rawURL); err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}

	if err := page.Timeout(timeout).WaitStable(300 * time.Millisecond); err != nil {
		bf.logger.Warn("page stability timeout, continuing", "url", rawURL, "error", err)
	}

	// Late-loading widgets (galleries, embedded calendars) settle after the
	// network goes idle; give them a short fixed window.
	if bf.cfg.BrowserSettle > 0 {
		select {
		case <-time.After(bf.cfg.BrowserSettle):
		case <-ctx.Done():
			return nil, &types.FetchError{URL: rawURL, Err: ctx.Err(), Retryable: false}
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}

	bf.logger.Debug("browser fetch complete",
		"url", rawURL,
		"size", len(html),
		"duration", time.Since(start),
	)

	return []byte(html), nil
}

// Close is a no-op; browser processes are per-fetch.
func (bf *BrowserFetcher) Close() error {
	return nil
}

// Type returns the fetcher type identifier.
func (bf *BrowserFetcher) Type() string {
	return "browser"
}
