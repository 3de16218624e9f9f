package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pranjalweb/filmveer/internal/scraper/lang"
	"github.com/pranjalweb/filmveer/internal/scraper/utils"
)

const (
	synopsisMinLength = 60
	synopsisMaxLength = 600
	relatedItemsLimit = 20
)

// genreAllowList holds the canonical genre IDs the site actually uses.
// Anything outside this list is navigation noise and is dropped.
var genreAllowList = map[string]Genre{
	"action":      {ID: "action", Name: "Action", Icon: "🔥"},
	"adventure":   {ID: "adventure", Name: "Adventure", Icon: "🗺️"},
	"animation":   {ID: "animation", Name: "Animation", Icon: "🎨"},
	"comedy":      {ID: "comedy", Name: "Comedy", Icon: "😂"},
	"crime":       {ID: "crime", Name: "Crime", Icon: "🕵️"},
	"documentary": {ID: "documentary", Name: "Documentary", Icon: "🎥"},
	"drama":       {ID: "drama", Name: "Drama", Icon: "🎭"},
	"family":      {ID: "family", Name: "Family", Icon: "👨‍👩‍👧"},
	"fantasy":     {ID: "fantasy", Name: "Fantasy", Icon: "🪄"},
	"horror":      {ID: "horror", Name: "Horror", Icon: "👻"},
	"mystery":     {ID: "mystery", Name: "Mystery", Icon: "🔍"},
	"romance":     {ID: "romance", Name: "Romance", Icon: "💕"},
	"sci-fi":      {ID: "sci-fi", Name: "Sci-Fi", Icon: "🚀"},
	"thriller":    {ID: "thriller", Name: "Thriller", Icon: "⚡"},
}

// languageAllowList holds the audio languages the site publishes.
var languageAllowList = map[string]Language{
	"hindi":    {Code: "hindi", Name: "Hindi", Flag: "🇮🇳"},
	"english":  {Code: "english", Name: "English", Flag: "🇬🇧"},
	"japanese": {Code: "japanese", Name: "Japanese", Flag: "🇯🇵"},
	"tamil":    {Code: "tamil", Name: "Tamil", Flag: "🇮🇳"},
	"telugu":   {Code: "telugu", Name: "Telugu", Flag: "🇮🇳"},
}

var (
	seasonCountRegex  = regexp.MustCompile(`(?i)\b(\d+)\s+Seasons?\b`)
	episodeCountRegex = regexp.MustCompile(`(?i)\b(\d+)\s+Episodes?\b`)
	durationRegex     = regexp.MustCompile(`(?i)\b(\d+)\s*min\b`)

	// seasonLineRegex parses the repeating "Season N • start-end (count) [tag]"
	// pattern from page text.
	seasonLineRegex = regexp.MustCompile(`Season\s+(\d+)\s*[•·]\s*(\d+)\s*-\s*(\d+)\s*\((\d+)\)(?:\s*\(([^)]*)\))?`)

	readMoreRegex = regexp.MustCompile(`(?i)read\s*more`)
)

// Info extracts a single content item from its canonical page. Each
// attribute walks its own fallback chain independently; only an unresolvable
// title or id fails the whole extraction.
func (s *Scraper) Info(ctx context.Context, id string) (item *ContentItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			item, err = nil, &ParseError{URL: s.canonicalURL(id, KindSeries), Msg: fmt.Sprintf("panic during parse: %v", r)}
		}
	}()

	doc, canonical, kind, err := s.resolveContent(ctx, id)
	if err != nil {
		return nil, err
	}

	title := firstText(doc.Selection, "h1.entry-title", "h1", "h2.title")
	if title == "" {
		title = utils.CleanText(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	}
	if title == "" {
		return nil, &ParseError{URL: canonical, Field: "title", Msg: "no heading or meta title"}
	}

	item = &ContentItem{
		ID:    id,
		Title: title,
		Kind:  kind,
		URL:   canonical,
	}

	item.PosterURL = utils.AbsoluteURL(s.baseURL, utils.DefaultString(
		firstAttr(doc.Selection, "data-src", ".poster img", ".entry-poster img"),
		firstAttr(doc.Selection, "src", ".poster img", ".entry-poster img"),
		doc.Find(`meta[property="og:image"]`).AttrOr("content", ""),
	))
	item.Backdrop = extractBackdrop(doc, s.baseURL)
	item.Synopsis = extractSynopsis(doc)
	item.SubCategory = firstText(doc.Selection, ".sub-category", ".breadcrumb .current")

	pageText := doc.Find("body").Text()
	if m := seasonCountRegex.FindStringSubmatch(pageText); m != nil {
		item.SeasonCount = utils.ParseInt(m[1])
	}
	if m := episodeCountRegex.FindStringSubmatch(pageText); m != nil {
		item.EpisodeCount = utils.ParseInt(m[1])
	}
	if m := durationRegex.FindStringSubmatch(pageText); m != nil {
		item.Duration = utils.ParseInt(m[1])
	}
	item.Year = utils.ParseYear(firstText(doc.Selection, ".release-year", ".year", ".entry-meta"))
	if item.Year == nil {
		item.Year = utils.ParseYear(pageText)
	}

	item.Genres = extractGenres(doc)
	item.Languages = extractLanguages(doc)
	item.Seasons = parseSeasonLines(pageText)
	item.Related = s.extractRelated(doc, kind, id)

	return item, nil
}

// extractBackdrop looks for the HD background fragment. The backdrop is
// optional: every miss degrades to empty, never to an error.
func extractBackdrop(doc *goquery.Document, baseURL string) string {
	bg := doc.Find(".backdrop, .cover, .bg-image").First()
	if bg.Length() == 0 {
		return ""
	}
	if style := bg.AttrOr("style", ""); style != "" {
		if u := backgroundImageURL(style); u != "" {
			return utils.AbsoluteURL(baseURL, u)
		}
	}
	for _, attr := range []string{"data-bg", "data-src", "src"} {
		if v := strings.TrimSpace(bg.AttrOr(attr, "")); v != "" {
			return utils.AbsoluteURL(baseURL, v)
		}
	}
	if v := imageURL(bg); v != "" {
		return utils.AbsoluteURL(baseURL, v)
	}
	return ""
}

var bgImageRegex = regexp.MustCompile(`background(?:-image)?\s*:\s*url\(['"]?([^'")]+)['"]?\)`)

func backgroundImageURL(style string) string {
	if m := bgImageRegex.FindStringSubmatch(style); m != nil {
		return m[1]
	}
	return ""
}

// extractSynopsis returns the first paragraph long enough to be a real
// description and not a "read more" stub, falling back to the meta
// description. The result is capped at a fixed maximum.
func extractSynopsis(doc *goquery.Document) string {
	var synopsis string
	doc.Find(".entry-content p, .description p, .synopsis p, article p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := utils.CleanText(p.Text())
		if len(text) >= synopsisMinLength && !readMoreRegex.MatchString(text) {
			synopsis = text
			return false
		}
		return true
	})
	if synopsis == "" {
		synopsis = utils.CleanText(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	}
	return utils.TruncateString(synopsis, synopsisMaxLength)
}

// extractGenres scans all genre links, keeps canonical IDs from the
// allow-list, and dedupes by ID preserving first-seen order.
func extractGenres(doc *goquery.Document) []Genre {
	var genres []Genre
	seen := make(map[string]bool)
	doc.Find(`a[href*="/genre/"], a[href*="/category/"]`).Each(func(_ int, a *goquery.Selection) {
		id := strings.ToLower(utils.ExtractIDFromURL(a.AttrOr("href", "")))
		genre, ok := genreAllowList[id]
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		genres = append(genres, genre)
	})
	return genres
}

// extractLanguages scans language links against the allow-list.
func extractLanguages(doc *goquery.Document) []Language {
	var languages []Language
	seen := make(map[string]bool)
	doc.Find(`a[href*="/language/"], a[href*="/audio/"]`).Each(func(_ int, a *goquery.Selection) {
		code := strings.ToLower(utils.ExtractIDFromURL(a.AttrOr("href", "")))
		language, ok := languageAllowList[code]
		if !ok || seen[code] {
			return
		}
		seen[code] = true
		languages = append(languages, language)
	})
	return languages
}

// parseSeasonLines extracts season aggregates from the repeating
// "Season N • start-end (count) [tag]" text pattern. Seasons whose trailing
// tag marks a sub-only or raw release are dual-release noise and are
// excluded entirely.
func parseSeasonLines(pageText string) []Season {
	var seasons []Season
	seen := make(map[int]bool)
	for _, m := range seasonLineRegex.FindAllStringSubmatch(pageText, -1) {
		if lang.IsSubOnlyMarker(m[5]) {
			continue
		}
		num := utils.ParseInt(m[1])
		if num == 0 || seen[num] {
			continue
		}
		seen[num] = true
		seasons = append(seasons, Season{
			Season:       num,
			StartEpisode: utils.ParseInt(m[2]),
			EndEpisode:   utils.ParseInt(m[3]),
			EpisodeCount: utils.ParseInt(m[4]),
		})
	}
	return seasons
}

// extractRelated collects recommended items, preferring the dedicated
// recommended section and falling back to any generic card region. Only
// same-kind items are kept, capped and deduplicated by ID.
func (s *Scraper) extractRelated(doc *goquery.Document, kind Kind, selfID string) []ContentItem {
	root := doc.Find(".recommended, .related, #related-posts").First()
	if root.Length() == 0 {
		root = doc.Selection
	}
	items := s.collectCards(root, 0)

	var related []ContentItem
	for _, item := range items {
		if item.Kind != kind || item.ID == selfID {
			continue
		}
		related = append(related, item)
		if len(related) >= relatedItemsLimit {
			break
		}
	}
	return related
}
