package scraper

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/pranjalweb/filmveer/internal/scraper/utils"
)

// itemCardSelectors is the ordered fallback chain for generic item-card
// regions. The first selector that yields at least one card wins; later ones
// are never merged in.
var itemCardSelectors = []string{
	"article.movie-item",
	".film-poster-item",
	".item-card",
	"li.movie-list-item",
	"article.post",
}

func kindFromSegment(segment string) Kind {
	switch segment {
	case "series":
		return KindSeries
	case "movies":
		return KindMovie
	case "cartoon":
		return KindCartoon
	}
	return ""
}

// parseItemCard turns one card element into a ContentItem reference. Cards
// missing a kind-qualified link are skipped entirely.
func (s *Scraper) parseItemCard(sel *goquery.Selection) (ContentItem, bool) {
	var href string
	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		h := a.AttrOr("href", "")
		if utils.KindSegment(h) != "" {
			href = h
			return false
		}
		return true
	})
	if href == "" {
		return ContentItem{}, false
	}

	abs := utils.AbsoluteURL(s.baseURL, href)
	id := utils.ExtractIDFromURL(abs)
	kind := kindFromSegment(utils.KindSegment(abs))
	if id == "" || kind == "" {
		return ContentItem{}, false
	}

	title := firstText(sel, "h3", "h2", ".title", ".film-name")
	if title == "" {
		title = utils.CleanText(sel.Find("a[title]").First().AttrOr("title", ""))
	}
	if title == "" {
		title = utils.CleanText(sel.Find("img").First().AttrOr("alt", ""))
	}
	if title == "" {
		return ContentItem{}, false
	}

	item := ContentItem{
		ID:        id,
		Title:     title,
		Kind:      kind,
		URL:       abs,
		PosterURL: utils.AbsoluteURL(s.baseURL, imageURL(sel)),
		Year:      utils.ParseYear(firstText(sel, ".year", ".meta", ".info")),
	}
	if sub := firstText(sel, ".sub-category", ".category"); sub != "" {
		item.SubCategory = sub
	}
	return item, true
}

// collectCards gathers item cards under root using the card selector chain,
// deduplicating by ID in first-seen order. limit <= 0 means unbounded.
func (s *Scraper) collectCards(root *goquery.Selection, limit int) []ContentItem {
	var items []ContentItem
	seen := make(map[string]bool)

	for _, q := range itemCardSelectors {
		cards := root.Find(q)
		if cards.Length() == 0 {
			continue
		}
		cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
			if limit > 0 && len(items) >= limit {
				return false
			}
			item, ok := s.parseItemCard(card)
			if !ok || seen[item.ID] {
				return true
			}
			seen[item.ID] = true
			items = append(items, item)
			return true
		})
		break // first non-empty selector wins
	}
	return items
}
