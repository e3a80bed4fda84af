// Package billboard scrapes chart candidates from the Billboard Hot 100
// page.
package billboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driven"
	"github.com/custodia-labs/chartmix/internal/logger"
)

// Ensure Scraper implements the ChartSource interface.
var _ driven.ChartSource = (*Scraper)(nil)

// Markup classes that locate chart items.
const (
	ItemClass   = "o-chart-results-list__item"
	TitleClass  = "c-title"
	ArtistClass = "c-label"
)

// Default scraper settings.
const (
	DefaultTimeout = 30 * time.Second

	// maxPageSize bounds how much of the chart page is parsed.
	maxPageSize = 16 << 20
)

// Config holds scraper configuration.
type Config struct {
	URL       string
	UserAgent string

	// HTTPClient overrides the client used to fetch the page.
	HTTPClient *http.Client
}

// Scraper fetches one chart page and extracts its title/artist pairs.
type Scraper struct {
	url        string
	userAgent  string
	httpClient *http.Client
}

// NewScraper creates a chart scraper.
func NewScraper(cfg Config) (*Scraper, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("%w: chart url required", domain.ErrConfiguration)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = domain.DefaultUserAgent
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Scraper{
		url:        cfg.URL,
		userAgent:  cfg.UserAgent,
		httpClient: cfg.HTTPClient,
	}, nil
}

// Scrape fetches the chart page and parses it.
func (s *Scraper) Scrape(ctx context.Context) ([]domain.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html")

	logger.Debug("Fetching chart %s", s.url)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrFetch, s.url, resp.StatusCode)
	}

	candidates, err := Parse(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	logger.Debug("Parsed %d chart candidates", len(candidates))
	return candidates, nil
}

// Parse extracts candidates from chart markup in document order. Each
// item contributes the text of its first title heading and first artist
// label; items where either is empty are skipped.
func Parse(r io.Reader) ([]domain.Candidate, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse chart html: %w", err)
	}

	var candidates []domain.Candidate
	for item := range findAll(doc, atom.Li, ItemClass) {
		title := findFirst(item, atom.H3, TitleClass)
		artist := findFirst(item, atom.Span, ArtistClass)
		if title == nil || artist == nil {
			continue
		}

		c := domain.Candidate{Title: text(title), Artist: text(artist)}
		if c.Title == "" || c.Artist == "" {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// findAll yields every element below n with the given tag and class in
// document order.
func findAll(n *html.Node, tag atom.Atom, class string) func(yield func(*html.Node) bool) {
	return func(yield func(*html.Node) bool) {
		var walk func(*html.Node) bool
		walk = func(n *html.Node) bool {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if matches(c, tag, class) && !yield(c) {
					return false
				}
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(n)
	}
}

func findFirst(n *html.Node, tag atom.Atom, class string) *html.Node {
	for m := range findAll(n, tag, class) {
		return m
	}
	return nil
}

func matches(n *html.Node, tag atom.Atom, class string) bool {
	if n.Type != html.ElementNode || n.DataAtom != tag {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

// text joins the trimmed text nodes under n with single spaces.
func text(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.Join(strings.Fields(n.Data), " "); s != "" {
				parts = append(parts, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
