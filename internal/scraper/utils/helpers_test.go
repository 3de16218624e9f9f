package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"removes extra spaces", "hello    world", "hello world"},
		{"removes tabs and newlines", "hello\t\n world", "hello world"},
		{"trims leading/trailing", "  hello world  ", "hello world"},
		{"handles empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *int
	}{
		{"extracts 4-digit year", "Released in 2019", intPtr(2019)},
		{"extracts from parentheses", "Money Heist (2017)", intPtr(2017)},
		{"rejects year before 1960", "Classic 1959", nil},
		{"skips bad year and takes the next sane one", "1901 remaster from 1998", intPtr(1998)},
		{"rejects far-future year", "Coming 2099", nil},
		{"no year yields nil, never now", "No year here", nil},
		{"handles empty string", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseYear(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestExtractIDFromURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"series URL", "https://example.com/series/money-heist/", "money-heist"},
		{"movie URL without trailing slash", "https://example.com/movies/drishyam-2", "drishyam-2"},
		{"strips query string", "https://example.com/series/dark/?ref=home", "dark"},
		{"strips fragment", "https://example.com/series/dark/#episodes", "dark"},
		{"bare ID passes through", "money-heist", "money-heist"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractIDFromURL(tt.input))
		})
	}
}

func TestExtractIDFromURL_Idempotent(t *testing.T) {
	urls := []string{
		"https://example.com/series/money-heist/",
		"https://example.com/movies/drishyam-2/",
		"https://example.com/cartoon/ben-10/",
	}
	for _, u := range urls {
		once := ExtractIDFromURL(u)
		assert.Equal(t, once, ExtractIDFromURL(once))
	}
}

func TestKindSegment(t *testing.T) {
	assert.Equal(t, "series", KindSegment("https://example.com/series/dark/"))
	assert.Equal(t, "movies", KindSegment("https://example.com/movies/drishyam/"))
	assert.Equal(t, "cartoon", KindSegment("https://example.com/cartoon/ben-10/"))
	assert.Equal(t, "", KindSegment("https://example.com/genre/action/"))
}

func TestAbsoluteURL(t *testing.T) {
	base := "https://example.com/series/dark/"

	tests := []struct {
		name     string
		href     string
		expected string
	}{
		{"relative path", "/episode/dark-1x1/", "https://example.com/episode/dark-1x1/"},
		{"protocol-relative", "//cdn.example.com/img.jpg", "https://cdn.example.com/img.jpg"},
		{"http upgraded to https", "http://example.com/x", "https://example.com/x"},
		{"already absolute", "https://other.com/y", "https://other.com/y"},
		{"empty href", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AbsoluteURL(base, tt.href))
		})
	}
}

func TestUpgradePosterURL(t *testing.T) {
	assert.Equal(t,
		"https://cdn.example.com/posters/dark.jpg",
		UpgradePosterURL("https://cdn.example.com/posters/dark-200x300.jpg"))
	assert.Equal(t,
		"https://cdn.example.com/posters/dark.jpg",
		UpgradePosterURL("https://cdn.example.com/posters/dark.jpg"))
	assert.Equal(t, "", UpgradePosterURL(""))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 10))
	assert.Equal(t, "hello...", TruncateString("hello world", 8))
	assert.Equal(t, "hel", TruncateString("hello", 3))
}

func TestDefaultString(t *testing.T) {
	assert.Equal(t, "x", DefaultString("", "x", "y"))
	assert.Equal(t, "", DefaultString("", ""))
}

func intPtr(v int) *int { return &v }
