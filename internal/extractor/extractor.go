package extractor

import (
	"bytes"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/miastoportal/harvester/internal/types"
)

// xpathPrefix switches a selector from CSS to XPath evaluation.
const xpathPrefix = "xpath:"

// Extractor applies a source's selectors to listing HTML and produces
// candidate drafts. Selector mismatches are soft failures: sites change
// markup without notice, so zero candidates is a logged condition, not an
// error.
type Extractor struct {
	logger *slog.Logger
}

// New creates a new Extractor.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{
		logger: logger.With("component", "extractor"),
	}
}

// Extract parses the HTML and pulls a draft out of every candidate element
// in document order. Candidates without a title are discarded.
func (e *Extractor) Extract(body []byte, baseURL string, sel types.SelectorSet) ([]types.Draft, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &types.ExtractError{URL: baseURL, Selector: sel.Articles, Err: err}
	}

	candidates := e.findCandidates(doc, sel.Articles)
	if len(candidates) == 0 {
		e.logger.Warn("selector matched no candidates", "url", baseURL, "selector", sel.Articles)
		return nil, nil
	}

	drafts := make([]types.Draft, 0, len(candidates))
	for _, c := range candidates {
		title := strings.TrimSpace(selectText(c, sel.Title))
		if title == "" {
			e.logger.Debug("candidate discarded, no title", "url", baseURL)
			continue
		}

		drafts = append(drafts, types.Draft{
			Title:    title,
			Content:  strings.TrimSpace(selectText(c, sel.Content)),
			RawDate:  strings.TrimSpace(selectText(c, sel.Date)),
			LinkURL:  ResolveURL(selectAttr(c, sel.Link, "href"), baseURL),
			ImageURL: ResolveURL(selectAttr(c, sel.Image, "src"), baseURL),
		})
	}

	e.logger.Debug("extraction complete",
		"url", baseURL,
		"candidates", len(candidates),
		"drafts", len(drafts),
	)

	return drafts, nil
}

// ExtractDetail re-extracts content and image from a followed article page.
// Used when a source's FollowLinks flag is set.
func (e *Extractor) ExtractDetail(body []byte, pageURL string, sel types.SelectorSet) (content, imageURL string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", &types.ExtractError{URL: pageURL, Selector: sel.Content, Err: err}
	}

	scope := doc.Selection
	content = strings.TrimSpace(selectText(scope, sel.Content))
	imageURL = ResolveURL(selectAttr(scope, sel.Image, "src"), pageURL)
	return content, imageURL, nil
}

// findCandidates returns one selection per matched candidate element,
// preserving document order.
func (e *Extractor) findCandidates(doc *goquery.Document, selector string) []*goquery.Selection {
	if xp, ok := strings.CutPrefix(selector, xpathPrefix); ok {
		root := doc.Selection.Nodes
		if len(root) == 0 {
			return nil
		}
		nodes, err := htmlquery.QueryAll(root[0], xp)
		if err != nil {
			e.logger.Warn("invalid xpath selector", "selector", xp, "error", err)
			return nil
		}
		out := make([]*goquery.Selection, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, goquery.NewDocumentFromNode(n).Selection)
		}
		return out
	}

	var out []*goquery.Selection
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	return out
}

// selectText extracts the text of the first match within scope.
// An empty selector yields an empty string.
func selectText(scope *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	if xp, ok := strings.CutPrefix(selector, xpathPrefix); ok {
		n := xpathFirst(scope, xp)
		if n == nil {
			return ""
		}
		return htmlquery.InnerText(n)
	}
	return scope.Find(selector).First().Text()
}

// selectAttr extracts an attribute of the first match within scope.
func selectAttr(scope *goquery.Selection, selector, attrName string) string {
	if selector == "" {
		return ""
	}
	if xp, ok := strings.CutPrefix(selector, xpathPrefix); ok {
		n := xpathFirst(scope, xp)
		if n == nil {
			return ""
		}
		return htmlquery.SelectAttr(n, attrName)
	}
	val, _ := scope.Find(selector).First().Attr(attrName)
	return val
}

func xpathFirst(scope *goquery.Selection, xp string) *html.Node {
	if len(scope.Nodes) == 0 {
		return nil
	}
	n, err := htmlquery.Query(scope.Nodes[0], xp)
	if err != nil {
		return nil
	}
	return n
}

// ResolveURL makes a candidate URL absolute against the page's base URL.
// URLs that already carry a scheme pass through unchanged; any resolution
// failure yields an empty string rather than propagating.
func ResolveURL(candidate, baseURL string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ""
	}
	if strings.HasPrefix(candidate, "http") {
		return candidate
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(candidate)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
