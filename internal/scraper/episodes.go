package scraper

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pranjalweb/filmveer/internal/scraper/lang"
	"github.com/pranjalweb/filmveer/internal/scraper/utils"
)

// Episode anchors are looked up through two independent selector sets. The
// secondary set is a full fallback: whichever set first yields at least one
// anchor is used exclusively, results are never merged across sets.
var (
	primaryEpisodeSelectors = []string{
		".episode-list a[href]",
		"ul.episodios li a[href]",
		".les-content a[href]",
	}
	secondaryEpisodeSelectors = []string{
		".seasons-block a[href]",
		"a[href*='/episode/']",
	}
)

// subOnlySeparatorSelector matches the marker element that splits an episode
// list into the regular zone and the trailing sub-only zone.
const subOnlySeparatorSelector = ".sub-separator, .sub-only-divider, hr.raw-divider"

var (
	urlSeasonEpRegex = regexp.MustCompile(`(\d+)x(\d+)/?$`)
	epTextRegex      = regexp.MustCompile(`(?i)\bEP[:.\s]*(\d+)`)
	bareNumberRegex  = regexp.MustCompile(`\d+`)
	parenTagRegex    = regexp.MustCompile(`\(([^)]*)\)\s*$`)
)

// Episodes extracts the ordered episode list for a content item. Movies
// short-circuit to a single synthetic episode.
func (s *Scraper) Episodes(ctx context.Context, id string) (*EpisodeList, error) {
	doc, canonical, kind, err := s.resolveContent(ctx, id)
	if err != nil {
		return nil, err
	}

	if kind == KindMovie {
		ep := Episode{
			ID:     fmt.Sprintf("%s-1x1", id),
			Season: 1,
			Number: 1,
			Title:  firstText(doc.Selection, "h1.entry-title", "h1"),
			URL:    canonical,
			HasSub: true,
			HasDub: true,
		}
		return &EpisodeList{
			Episodes:      []Episode{ep},
			Seasons:       []Season{{Season: 1, EpisodeCount: 1, StartEpisode: 1, EndEpisode: 1}},
			TotalEpisodes: 1,
		}, nil
	}

	selector := pickEpisodeSelector(doc)
	if selector == "" {
		return nil, &ParseError{URL: canonical, Field: "episodes", Msg: "no episode anchors under any selector set"}
	}

	episodes := s.parseEpisodeAnchors(doc, selector, id)
	if len(episodes) == 0 {
		return nil, &ParseError{URL: canonical, Field: "episodes", Msg: "episode anchors yielded no parsable entries"}
	}

	episodes = dedupeEpisodes(episodes)
	sort.SliceStable(episodes, func(i, j int) bool {
		if episodes[i].Season != episodes[j].Season {
			return episodes[i].Season < episodes[j].Season
		}
		return episodes[i].Number < episodes[j].Number
	})

	return &EpisodeList{
		Episodes:      episodes,
		Seasons:       deriveSeasons(episodes),
		TotalEpisodes: len(episodes),
	}, nil
}

// pickEpisodeSelector returns the first selector, across the primary then
// secondary sets, that matches at least one anchor.
func pickEpisodeSelector(doc *goquery.Document) string {
	for _, set := range [][]string{primaryEpisodeSelectors, secondaryEpisodeSelectors} {
		for _, q := range set {
			if doc.Find(q).Length() > 0 {
				return q
			}
		}
	}
	return ""
}

// parseEpisodeAnchors walks episode anchors and the sub-only separator in a
// single document-order pass. Anchors positioned after the separator are
// flagged sub-only; without a separator only per-episode text markers can
// flag an episode.
func (s *Scraper) parseEpisodeAnchors(doc *goquery.Document, selector, contentID string) []Episode {
	var episodes []Episode
	inSubZone := false

	doc.Find(selector + ", " + subOnlySeparatorSelector).Each(func(_ int, el *goquery.Selection) {
		if el.Is(subOnlySeparatorSelector) {
			inSubZone = true
			return
		}

		href := el.AttrOr("href", "")
		text := utils.CleanText(el.Text())
		season, number, ok := parseSeasonNumber(href, text)
		if !ok {
			return
		}

		subOnly := inSubZone
		if m := parenTagRegex.FindStringSubmatch(text); m != nil && lang.IsSubOnlyMarker(m[1]) {
			subOnly = true
		}

		episodes = append(episodes, Episode{
			ID:        fmt.Sprintf("%s-%dx%d", contentID, season, number),
			Season:    season,
			Number:    number,
			Title:     text,
			URL:       utils.AbsoluteURL(s.baseURL, href),
			IsSubOnly: subOnly,
			HasSub:    true,
			HasDub:    !subOnly,
		})
	})
	return episodes
}

// parseSeasonNumber derives (season, number) from an anchor. Strategies run
// in fixed order and the first success wins: the URL's SxN suffix, then an
// "EP:N" text marker, then the first bare number in the link text.
func parseSeasonNumber(href, text string) (season, number int, ok bool) {
	cleanHref := strings.TrimSuffix(href, "/")
	if m := urlSeasonEpRegex.FindStringSubmatch(cleanHref); m != nil {
		return utils.ParseInt(m[1]), utils.ParseInt(m[2]), true
	}
	if m := epTextRegex.FindStringSubmatch(text); m != nil {
		return 1, utils.ParseInt(m[1]), true
	}
	if m := bareNumberRegex.FindString(text); m != "" {
		return 1, utils.ParseInt(m), true
	}
	return 0, 0, false
}

// dedupeEpisodes keeps the first occurrence of each composed ID.
func dedupeEpisodes(episodes []Episode) []Episode {
	seen := make(map[string]bool, len(episodes))
	out := episodes[:0]
	for _, ep := range episodes {
		if seen[ep.ID] {
			continue
		}
		seen[ep.ID] = true
		out = append(out, ep)
	}
	return out
}

// deriveSeasons aggregates a sorted episode list into per-season summaries.
func deriveSeasons(episodes []Episode) []Season {
	var seasons []Season
	index := make(map[int]int)
	for _, ep := range episodes {
		i, ok := index[ep.Season]
		if !ok {
			index[ep.Season] = len(seasons)
			seasons = append(seasons, Season{
				Season:       ep.Season,
				EpisodeCount: 1,
				StartEpisode: ep.Number,
				EndEpisode:   ep.Number,
			})
			continue
		}
		seasons[i].EpisodeCount++
		if ep.Number < seasons[i].StartEpisode {
			seasons[i].StartEpisode = ep.Number
		}
		if ep.Number > seasons[i].EndEpisode {
			seasons[i].EndEpisode = ep.Number
		}
	}
	return seasons
}
