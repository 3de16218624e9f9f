package scraper

import (
	"context"
	"math/rand"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/pranjalweb/filmveer/internal/scraper/utils"
)

const (
	spotlightSize     = 10
	trendingSeriesTop = 6
	trendingMoviesTop = 4
	sectionItemsLimit = 15
)

// spotlightMoviePositions are the 0-indexed spotlight slots reserved for
// movies (positions 2 and 6 of the 1-based list).
var spotlightMoviePositions = map[int]bool{1: true, 5: true}

// homeSections describes each independent section extractor: the heading
// text that keys it and the dedicated selector tried when no heading
// matches. Sections share no state and may be read in any order.
var homeSections = []struct {
	name     string
	keyword  string
	fallback string
}{
	{"mostWatchedSeries", "most watched series", ".most-watched-series"},
	{"mostWatchedMovies", "most watched movies", ".most-watched-movies"},
	{"freshDrops", "fresh", ".fresh-drops"},
	{"upcomingEpisodes", "upcoming", ".upcoming-episodes"},
	{"onAirSeries", "on air", ".on-air"},
	{"newArrivals", "new arrival", ".new-arrivals"},
	{"cartoonHighlights", "cartoon", ".cartoon-highlights"},
}

// Home aggregates the landing page into section lists, a ranked trending
// list and the spotlight. A total fetch failure degrades to a static
// fallback payload so the home endpoint always answers.
func (s *Scraper) Home(ctx context.Context) (*HomePayload, error) {
	doc, err := s.document(ctx, s.baseURL+"/")
	if err != nil {
		s.logger.Warn("home fetch failed, serving fallback payload", "error", err)
		return fallbackHomePayload(), nil
	}

	sections := make(map[string][]ContentItem, len(homeSections))
	for _, sec := range homeSections {
		sections[sec.name] = s.extractSection(doc, sec.keyword, sec.fallback)
	}

	payload := &HomePayload{
		MostWatchedSeries: sections["mostWatchedSeries"],
		MostWatchedMovies: sections["mostWatchedMovies"],
		FreshDrops:        sections["freshDrops"],
		UpcomingEpisodes:  sections["upcomingEpisodes"],
		OnAirSeries:       sections["onAirSeries"],
		NewArrivals:       sections["newArrivals"],
		CartoonHighlights: sections["cartoonHighlights"],
	}

	payload.Trending = buildTrending(payload.MostWatchedSeries, payload.MostWatchedMovies)
	payload.Spotlight = s.buildSpotlight(ctx, sections)

	distinct := make(map[string]bool)
	for _, items := range sections {
		for _, item := range items {
			distinct[item.ID] = true
		}
	}
	payload.TotalItems = len(distinct)

	return payload, nil
}

// extractSection locates a section by its heading text, then falls back to
// the section's dedicated selector. Strategies are tried strictly in order;
// the first that yields cards wins.
func (s *Scraper) extractSection(doc *goquery.Document, keyword, fallback string) []ContentItem {
	var items []ContentItem
	doc.Find("h2, h3, .section-title").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(utils.CleanText(heading.Text())), keyword) {
			return true
		}
		if found := s.collectCards(heading.Parent(), sectionItemsLimit); len(found) > 0 {
			items = found
			return false
		}
		if found := s.collectCards(heading.Next(), sectionItemsLimit); len(found) > 0 {
			items = found
			return false
		}
		return true
	})
	if len(items) == 0 {
		items = s.collectCards(doc.Find(fallback), sectionItemsLimit)
	}
	return items
}

// buildTrending ranks the top 6 most-watched series followed by the top 4
// most-watched movies, 1 through 10 in that concatenation order.
func buildTrending(series, movies []ContentItem) []RankedItem {
	var trending []RankedItem
	for _, item := range takeFirst(series, trendingSeriesTop) {
		trending = append(trending, RankedItem{ContentItem: item, Rank: len(trending) + 1})
	}
	for _, item := range takeFirst(movies, trendingMoviesTop) {
		trending = append(trending, RankedItem{ContentItem: item, Rank: len(trending) + 1})
	}
	return trending
}

// buildSpotlight fills the 10 spotlight slots: positions 2 and 6 are
// reserved for movies from a shuffled pool, every other slot draws from a
// shuffled series pool, falling back to leftover movies when series run out.
// Backdrops for all slots are fetched in parallel; a per-item failure only
// downgrades that item to its upgraded poster URL.
func (s *Scraper) buildSpotlight(ctx context.Context, sections map[string][]ContentItem) []RankedItem {
	moviePool := shufflePool(s.rnd, dedupeByKind(sections, KindMovie))
	seriesPool := shufflePool(s.rnd, dedupeByKind(sections, KindSeries, KindCartoon))

	var spotlight []RankedItem
	for pos := 0; pos < spotlightSize; pos++ {
		var item ContentItem
		switch {
		case spotlightMoviePositions[pos] && len(moviePool) > 0:
			item, moviePool = moviePool[0], moviePool[1:]
		case len(seriesPool) > 0:
			item, seriesPool = seriesPool[0], seriesPool[1:]
		case len(moviePool) > 0:
			item, moviePool = moviePool[0], moviePool[1:]
		default:
			return spotlight
		}
		spotlight = append(spotlight, RankedItem{ContentItem: item, Rank: pos + 1})
	}

	// Fan out one detail-page fetch per slot. All fetches are awaited; no
	// single failure blocks or fails the list.
	g, gctx := errgroup.WithContext(ctx)
	for i := range spotlight {
		g.Go(func() error {
			item := &spotlight[i]
			backdrop, err := s.fetchBackdrop(gctx, item.ID, item.Kind)
			if err != nil || backdrop == "" {
				item.Backdrop = utils.UpgradePosterURL(item.PosterURL)
				return nil
			}
			item.Backdrop = backdrop
			return nil
		})
	}
	_ = g.Wait()

	return spotlight
}

// fetchBackdrop pulls the high-resolution backdrop fragment from an item's
// own detail page.
func (s *Scraper) fetchBackdrop(ctx context.Context, id string, kind Kind) (string, error) {
	doc, err := s.document(ctx, s.canonicalURL(id, kind))
	if err != nil {
		return "", err
	}
	return extractBackdrop(doc, s.baseURL), nil
}

// dedupeByKind merges all section outputs into one kind-filtered, ID-deduped
// pool, preserving section declaration order.
func dedupeByKind(sections map[string][]ContentItem, kinds ...Kind) []ContentItem {
	wanted := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		wanted[k] = true
	}
	var pool []ContentItem
	seen := make(map[string]bool)
	for _, sec := range homeSections {
		for _, item := range sections[sec.name] {
			if !wanted[item.Kind] || seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			pool = append(pool, item)
		}
	}
	return pool
}

func shufflePool(rnd *rand.Rand, pool []ContentItem) []ContentItem {
	rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}

func takeFirst(items []ContentItem, n int) []ContentItem {
	if len(items) < n {
		return items
	}
	return items[:n]
}

// fallbackHomePayload is the fully formed static payload served when the
// source site is unreachable.
func fallbackHomePayload() *HomePayload {
	series := []ContentItem{
		staticItem("money-heist", "Money Heist", KindSeries, 2017),
		staticItem("squid-game", "Squid Game", KindSeries, 2021),
		staticItem("mirzapur", "Mirzapur", KindSeries, 2018),
		staticItem("sacred-games", "Sacred Games", KindSeries, 2018),
		staticItem("panchayat", "Panchayat", KindSeries, 2020),
		staticItem("farzi", "Farzi", KindSeries, 2023),
	}
	movies := []ContentItem{
		staticItem("drishyam-2", "Drishyam 2", KindMovie, 2022),
		staticItem("jawan", "Jawan", KindMovie, 2023),
		staticItem("pathaan", "Pathaan", KindMovie, 2023),
		staticItem("rrr", "RRR", KindMovie, 2022),
	}

	payload := &HomePayload{
		MostWatchedSeries: series,
		MostWatchedMovies: movies,
		IsFallback:        true,
		TotalItems:        len(series) + len(movies),
	}
	payload.Trending = buildTrending(series, movies)

	// Static spotlight keeps the structural rule: movies at positions 2 and 6.
	si, mi := 0, 0
	for pos := 0; pos < spotlightSize; pos++ {
		var item ContentItem
		if spotlightMoviePositions[pos] && mi < len(movies) {
			item = movies[mi]
			mi++
		} else if si < len(series) {
			item = series[si]
			si++
		} else if mi < len(movies) {
			item = movies[mi]
			mi++
		} else {
			break
		}
		item.Backdrop = utils.UpgradePosterURL(item.PosterURL)
		payload.Spotlight = append(payload.Spotlight, RankedItem{ContentItem: item, Rank: pos + 1})
	}

	return payload
}

func staticItem(id, title string, kind Kind, year int) ContentItem {
	y := year
	return ContentItem{
		ID:        id,
		Title:     title,
		Kind:      kind,
		Year:      &y,
		PosterURL: "https://static.filmveer.app/posters/" + id + "-342x513.jpg",
	}
}
