package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardHTML(segment, id, title string) string {
	return fmt.Sprintf(
		`<article class="movie-item"><a href="/%s/%s/"><img alt="%s" src="/img/%s-190x285.jpg"></a><h3>%s</h3></article>`,
		segment, id, title, id, title,
	)
}

func homePageHTML() string {
	var b strings.Builder
	b.WriteString("<html><body>")

	b.WriteString("<section><h2>Most Watched Series</h2>")
	for i := 1; i <= 6; i++ {
		b.WriteString(cardHTML("series", fmt.Sprintf("series-%d", i), fmt.Sprintf("Series %d", i)))
	}
	b.WriteString("</section>")

	b.WriteString("<section><h2>Most Watched Movies</h2>")
	for i := 1; i <= 4; i++ {
		b.WriteString(cardHTML("movies", fmt.Sprintf("movie-%d", i), fmt.Sprintf("Movie %d", i)))
	}
	b.WriteString("</section>")

	b.WriteString("<section><h2>Cartoon Corner</h2>")
	b.WriteString(cardHTML("cartoon", "toon-1", "Toon 1"))
	b.WriteString("</section>")

	// No heading references this section; only its dedicated class does.
	b.WriteString(`<div class="fresh-drops">`)
	b.WriteString(cardHTML("series", "fresh-1", "Fresh 1"))
	b.WriteString(cardHTML("series", "fresh-2", "Fresh 2"))
	b.WriteString("</div>")

	b.WriteString("</body></html>")
	return b.String()
}

func TestHome(t *testing.T) {
	t.Run("aggregates sections with trending ranked series-then-movies", func(t *testing.T) {
		s := newTestScraper(t, newFixtureHandler(map[string]string{
			"/": homePageHTML(),
		}))

		payload, err := s.Home(context.Background())

		require.NoError(t, err)
		assert.False(t, payload.IsFallback)
		assert.Len(t, payload.MostWatchedSeries, 6)
		assert.Len(t, payload.MostWatchedMovies, 4)
		assert.Len(t, payload.CartoonHighlights, 1)
		assert.Len(t, payload.FreshDrops, 2)

		require.Len(t, payload.Trending, 10)
		for i, item := range payload.Trending {
			assert.Equal(t, i+1, item.Rank)
			if i < 6 {
				assert.Equal(t, KindSeries, item.Kind)
			} else {
				assert.Equal(t, KindMovie, item.Kind)
			}
		}
		assert.Equal(t, "series-1", payload.Trending[0].ID)
		assert.Equal(t, "movie-1", payload.Trending[6].ID)

		assert.Equal(t, 13, payload.TotalItems)
	})

	t.Run("spotlight reserves positions 2 and 6 for movies", func(t *testing.T) {
		s := newTestScraper(t, newFixtureHandler(map[string]string{
			"/": homePageHTML(),
		}))

		payload, err := s.Home(context.Background())

		require.NoError(t, err)
		require.Len(t, payload.Spotlight, 10)
		for i, item := range payload.Spotlight {
			assert.Equal(t, i+1, item.Rank)
			switch i {
			case 1, 5:
				assert.Equal(t, KindMovie, item.Kind, "slot %d must hold a movie", i)
			}
		}
	})

	t.Run("spotlight backdrop degrades to the upgraded poster", func(t *testing.T) {
		// Detail pages are not served, so every backdrop fetch fails and each
		// slot falls back to its poster with the size suffix stripped.
		s := newTestScraper(t, newFixtureHandler(map[string]string{
			"/": homePageHTML(),
		}))

		payload, err := s.Home(context.Background())

		require.NoError(t, err)
		require.NotEmpty(t, payload.Spotlight)
		first := payload.Spotlight[0]
		assert.True(t, strings.HasSuffix(first.Backdrop, fmt.Sprintf("/img/%s.jpg", first.ID)))
		assert.NotContains(t, first.Backdrop, "-190x285")
	})

	t.Run("spotlight uses the fetched backdrop when the detail page answers", func(t *testing.T) {
		pages := map[string]string{"/": homePageHTML()}
		for i := 1; i <= 6; i++ {
			pages[fmt.Sprintf("/series/series-%d/", i)] = fmt.Sprintf(
				`<html><body><div class="backdrop" style="background-image:url('/img/series-%d-hd.jpg')"></div></body></html>`, i)
		}
		s := newTestScraper(t, newFixtureHandler(pages))

		payload, err := s.Home(context.Background())

		require.NoError(t, err)
		var checked bool
		for _, item := range payload.Spotlight {
			if item.Kind != KindSeries || !strings.HasPrefix(item.ID, "series-") {
				continue
			}
			assert.True(t, strings.HasSuffix(item.Backdrop, fmt.Sprintf("/img/%s-hd.jpg", item.ID)))
			checked = true
		}
		assert.True(t, checked)
	})

	t.Run("total fetch failure degrades to the static fallback payload", func(t *testing.T) {
		s := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		payload, err := s.Home(context.Background())

		require.NoError(t, err)
		assert.True(t, payload.IsFallback)
		assert.Len(t, payload.MostWatchedSeries, 6)
		assert.Len(t, payload.MostWatchedMovies, 4)
		assert.Equal(t, 10, payload.TotalItems)

		require.Len(t, payload.Trending, 10)
		assert.Equal(t, 1, payload.Trending[0].Rank)

		require.Len(t, payload.Spotlight, 10)
		assert.Equal(t, KindMovie, payload.Spotlight[1].Kind)
		assert.Equal(t, KindMovie, payload.Spotlight[5].Kind)
		for _, item := range payload.Spotlight {
			require.NotNil(t, item.Year)
		}
	})
}
