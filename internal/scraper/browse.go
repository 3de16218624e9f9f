package scraper

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sahilm/fuzzy"
)

// itemTitles adapts a card list to fuzzy.Source for search ranking.
type itemTitles []ContentItem

func (t itemTitles) String(i int) string { return t[i].Title }
func (t itemTitles) Len() int            { return len(t) }

// Movies extracts one page of the movie listing, capped to size items.
func (s *Scraper) Movies(ctx context.Context, page, size int) (*PagedResult, error) {
	pageURL := s.baseURL + "/movies/"
	if page > 1 {
		pageURL = fmt.Sprintf("%s/movies/page/%d/", s.baseURL, page)
	}
	return s.listing(ctx, pageURL, page, size)
}

// Genre extracts one page of a genre listing, capped to size items.
func (s *Scraper) Genre(ctx context.Context, genre string, page, size int) (*PagedResult, error) {
	pageURL := fmt.Sprintf("%s/genre/%s/", s.baseURL, genre)
	if page > 1 {
		pageURL = fmt.Sprintf("%s/genre/%s/page/%d/", s.baseURL, genre, page)
	}
	return s.listing(ctx, pageURL, page, size)
}

// Search extracts one page of search results, re-ranked by fuzzy match
// quality against the query. Non-matching items keep their page order after
// the matches. The size cap is applied after ranking so the best matches
// survive it.
func (s *Scraper) Search(ctx context.Context, query string, page, size int) (*PagedResult, error) {
	pageURL := fmt.Sprintf("%s/?s=%s", s.baseURL, url.QueryEscape(query))
	if page > 1 {
		pageURL = fmt.Sprintf("%s/page/%d/?s=%s", s.baseURL, page, url.QueryEscape(query))
	}
	result, err := s.listing(ctx, pageURL, page, 0)
	if err != nil {
		return nil, err
	}
	result.Items = capItems(rankByQuery(query, result.Items), size)
	result.Total = len(result.Items)
	return result, nil
}

// listing fetches a listing page and parses its item cards. size <= 0 means
// the whole page.
func (s *Scraper) listing(ctx context.Context, pageURL string, page, size int) (*PagedResult, error) {
	doc, err := s.document(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	items := capItems(s.collectCards(doc.Selection, 0), size)
	hasNext := doc.Find(".pagination .next, a.next, a[rel='next']").Length() > 0

	return &PagedResult{
		Items:   items,
		Page:    page,
		HasNext: hasNext,
		Total:   len(items),
	}, nil
}

func capItems(items []ContentItem, size int) []ContentItem {
	if size > 0 && len(items) > size {
		return items[:size]
	}
	return items
}

// rankByQuery sorts fuzzy matches by descending score ahead of the
// remaining items.
func rankByQuery(query string, items []ContentItem) []ContentItem {
	if query == "" || len(items) == 0 {
		return items
	}
	matches := fuzzy.FindFrom(query, itemTitles(items))

	ranked := make([]ContentItem, 0, len(items))
	matched := make(map[int]bool, len(matches))
	for _, m := range matches {
		matched[m.Index] = true
		ranked = append(ranked, items[m.Index])
	}
	for i, item := range items {
		if !matched[i] {
			ranked = append(ranked, item)
		}
	}
	return ranked
}
