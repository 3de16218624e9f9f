package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingHTML(withNext bool) string {
	html := `<html><body>
		<article class="movie-item"><a href="/movies/night-shift/"><img alt="Night Shift"></a><h3>Night Shift</h3></article>
		<article class="movie-item"><a href="/movies/last-train/"><img alt="Last Train"></a><h3>Last Train</h3></article>`
	if withNext {
		html += `<div class="pagination"><a class="next" href="/movies/page/2/">Next</a></div>`
	}
	return html + "</body></html>"
}

func TestMovies(t *testing.T) {
	t.Run("first page lives at the plain listing path", func(t *testing.T) {
		handler := newFixtureHandler(map[string]string{
			"/movies/": listingHTML(true),
		})
		s := newTestScraper(t, handler)

		result, err := s.Movies(context.Background(), 1, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Page)
		assert.True(t, result.HasNext)
		assert.Equal(t, 2, result.Total)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "night-shift", result.Items[0].ID)
		assert.Equal(t, KindMovie, result.Items[0].Kind)
	})

	t.Run("later pages use the page path and detect the last page", func(t *testing.T) {
		handler := newFixtureHandler(map[string]string{
			"/movies/page/3/": listingHTML(false),
		})
		s := newTestScraper(t, handler)

		result, err := s.Movies(context.Background(), 3, 0)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Page)
		assert.False(t, result.HasNext)
	})

	t.Run("size caps the returned items", func(t *testing.T) {
		handler := newFixtureHandler(map[string]string{
			"/movies/": listingHTML(true),
		})
		s := newTestScraper(t, handler)

		result, err := s.Movies(context.Background(), 1, 1)

		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "night-shift", result.Items[0].ID)
		assert.Equal(t, 1, result.Total)
		assert.True(t, result.HasNext)
	})
}

func TestGenre(t *testing.T) {
	handler := newFixtureHandler(map[string]string{
		"/genre/thriller/": listingHTML(false),
	})
	s := newTestScraper(t, handler)

	result, err := s.Genre(context.Background(), "thriller", 1, 0)

	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
}

func TestSearch(t *testing.T) {
	t.Run("fuzzy matches rank ahead of page order", func(t *testing.T) {
		handler := newFixtureHandler(map[string]string{
			"/": `<html><body>
				<article class="movie-item"><a href="/series/harbinger/"><img alt="Harbinger"></a><h3>Harbinger</h3></article>
				<article class="movie-item"><a href="/series/dark-harbor/"><img alt="Dark Harbor"></a><h3>Dark Harbor</h3></article>
				<article class="movie-item"><a href="/movies/night-shift/"><img alt="Night Shift"></a><h3>Night Shift</h3></article>
			</body></html>`,
		})
		s := newTestScraper(t, handler)

		result, err := s.Search(context.Background(), "harbor", 1, 0)

		require.NoError(t, err)
		require.Len(t, result.Items, 3)
		assert.Equal(t, "dark-harbor", result.Items[0].ID)
		assert.Equal(t, "harbinger", result.Items[1].ID)
		assert.Equal(t, "night-shift", result.Items[2].ID)
	})

	t.Run("size is applied after ranking so the best match survives", func(t *testing.T) {
		handler := newFixtureHandler(map[string]string{
			"/": `<html><body>
				<article class="movie-item"><a href="/series/harbinger/"><img alt="Harbinger"></a><h3>Harbinger</h3></article>
				<article class="movie-item"><a href="/series/dark-harbor/"><img alt="Dark Harbor"></a><h3>Dark Harbor</h3></article>
			</body></html>`,
		})
		s := newTestScraper(t, handler)

		result, err := s.Search(context.Background(), "harbor", 1, 1)

		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "dark-harbor", result.Items[0].ID)
		assert.Equal(t, 1, result.Total)
	})
}

func TestRankByQuery(t *testing.T) {
	items := []ContentItem{
		{ID: "a", Title: "Alpha"},
		{ID: "b", Title: "Beta"},
	}

	t.Run("empty query keeps page order", func(t *testing.T) {
		ranked := rankByQuery("", items)
		assert.Equal(t, items, ranked)
	})

	t.Run("non-matching items keep page order after matches", func(t *testing.T) {
		ranked := rankByQuery("beta", items)
		require.Len(t, ranked, 2)
		assert.Equal(t, "b", ranked[0].ID)
		assert.Equal(t, "a", ranked[1].ID)
	})
}
