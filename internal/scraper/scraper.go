// Package scraper is the content-extraction core. It turns pages of one
// third-party streaming site into normalized catalog entities using ordered
// fallback selector chains, resilient to partial markup failure.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pranjalweb/filmveer/internal/scraper/httpc"
	"github.com/pranjalweb/filmveer/internal/scraper/utils"
)

// kindSegments maps a catalog Kind to its URL path segment. The segment a
// canonical URL resolves under is authoritative for the item's kind.
var kindSegments = map[Kind]string{
	KindSeries:  "series",
	KindMovie:   "movies",
	KindCartoon: "cartoon",
}

// kindProbeOrder is the order canonical URLs are tried when the kind is not
// yet known. Series first; corrected once the real URL is found.
var kindProbeOrder = []Kind{KindSeries, KindMovie, KindCartoon}

// Scraper extracts catalog entities from the source site.
type Scraper struct {
	baseURL       string
	client        *httpc.Client
	logger        *slog.Logger
	rnd           *rand.Rand
	preferredLang string
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithRand replaces the shuffle source used by the home spotlight, for
// deterministic tests.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Scraper) { s.rnd = rnd }
}

// WithPreferredLanguage sets the language used for stream resolution when a
// caller does not request one.
func WithPreferredLanguage(lang string) Option {
	return func(s *Scraper) { s.preferredLang = lang }
}

// New creates a Scraper rooted at baseURL.
func New(baseURL string, client *httpc.Client, logger *slog.Logger, opts ...Option) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scraper{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		logger:  logger,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseURL returns the configured site root.
func (s *Scraper) BaseURL() string { return s.baseURL }

// document fetches a page and wraps it in a queryable tree.
func (s *Scraper) document(ctx context.Context, url string) (*goquery.Document, error) {
	html, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{URL: url, Msg: err.Error()}
	}
	return doc, nil
}

// canonicalURL builds the kind-qualified absolute URL for a content ID.
func (s *Scraper) canonicalURL(id string, kind Kind) string {
	return fmt.Sprintf("%s/%s/%s/", s.baseURL, kindSegments[kind], id)
}

// episodeURL builds the watch-page URL for a composed episode ID.
func (s *Scraper) episodeURL(episodeID string) string {
	return fmt.Sprintf("%s/episode/%s/", s.baseURL, episodeID)
}

// resolveContent fetches the canonical page for id, probing kind segments
// series-first. A missing page under one segment is not fatal; only
// transient fetch failures abort the probe early.
func (s *Scraper) resolveContent(ctx context.Context, id string) (*goquery.Document, string, Kind, error) {
	var lastErr error
	for _, kind := range kindProbeOrder {
		url := s.canonicalURL(id, kind)
		doc, err := s.document(ctx, url)
		if err == nil {
			return doc, url, kind, nil
		}
		lastErr = err

		var se *httpc.StatusError
		if errors.As(err, &se) && se.StatusCode < 500 {
			continue // not under this segment, try the next
		}
		return nil, "", "", err
	}
	return nil, "", "", fmt.Errorf("content %q not found under any catalog segment: %w", id, lastErr)
}

// firstText walks candidate selectors in order and returns the first
// non-empty text match. This is the dominant extraction pattern: try
// selector A, else B, else C.
func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, q := range selectors {
		if text := utils.CleanText(sel.Find(q).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstAttr walks candidate selectors in order and returns the first
// non-empty value of attr.
func firstAttr(sel *goquery.Selection, attr string, selectors ...string) string {
	for _, q := range selectors {
		if v := strings.TrimSpace(sel.Find(q).First().AttrOr(attr, "")); v != "" {
			return v
		}
	}
	return ""
}

// imageURL pulls an image URL from a card or poster element, preferring
// lazy-load attributes over src.
func imageURL(sel *goquery.Selection) string {
	img := sel.Find("img").First()
	for _, attr := range []string{"data-src", "data-lazy-src", "src"} {
		if v := strings.TrimSpace(img.AttrOr(attr, "")); v != "" {
			return v
		}
	}
	return ""
}
