package scraper

// Kind identifies the top-level catalog category a content item belongs to.
// It is derived from the URL segment the item's canonical page resolves under,
// never guessed from page text.
type Kind string

const (
	KindSeries  Kind = "series"
	KindMovie   Kind = "movie"
	KindCartoon Kind = "cartoon"
)

// StreamType classifies how a stream source URL should be played.
type StreamType string

const (
	StreamTypeHLS    StreamType = "hls"
	StreamTypeMP4    StreamType = "mp4"
	StreamTypeIframe StreamType = "iframe"
	StreamTypeEmbed  StreamType = "embed"
	StreamTypeDirect StreamType = "direct"
)

// Genre is a catalog genre with its canonical site ID.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// Language is an audio/subtitle language offered by a content item.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag,omitempty"`
}

// ContentItem is one series, movie or cartoon. Items are constructed fresh on
// each successful extraction and never mutated afterwards; a cache refresh
// replaces the whole object.
type ContentItem struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	PosterURL    string        `json:"posterUrl"`
	Backdrop     string        `json:"backdrop,omitempty"`
	Kind         Kind          `json:"kind"`
	SubCategory  string        `json:"subCategory,omitempty"`
	Synopsis     string        `json:"synopsis,omitempty"`
	Year         *int          `json:"year"`
	SeasonCount  int           `json:"seasonCount,omitempty"`
	EpisodeCount int           `json:"episodeCount,omitempty"`
	Duration     int           `json:"duration,omitempty"` // minutes
	Genres       []Genre       `json:"genres,omitempty"`
	Languages    []Language    `json:"languages,omitempty"`
	Seasons      []Season      `json:"seasons,omitempty"`
	Related      []ContentItem `json:"relatedItems,omitempty"`
	URL          string        `json:"url,omitempty"`
}

// Episode is a single playable episode of a content item. The composed ID is
// unique within one item's episode list.
type Episode struct {
	ID        string `json:"id"` // {contentId}-{season}x{number}
	Season    int    `json:"season"`
	Number    int    `json:"number"`
	Title     string `json:"title,omitempty"`
	URL       string `json:"url"`
	IsSubOnly bool   `json:"isSubOnly"`
	HasDub    bool   `json:"hasDub"`
	HasSub    bool   `json:"hasSub"`
}

// Season aggregates the episodes sharing one season number. It is derived
// from the episode list and never stored on its own.
type Season struct {
	Season       int `json:"season"`
	EpisodeCount int `json:"episodeCount"`
	StartEpisode int `json:"startEpisode"`
	EndEpisode   int `json:"endEpisode"`
}

// EpisodeList is the Episode extractor's result.
type EpisodeList struct {
	Episodes      []Episode `json:"episodes"`
	Seasons       []Season  `json:"seasons"`
	TotalEpisodes int       `json:"totalEpisodes"`
}

// StreamSource is one playable source for one episode. URLs are unique within
// a single extraction regardless of which discovery strategy found them.
type StreamSource struct {
	Player     string     `json:"player"`
	URL        string     `json:"url"`
	IsSub      bool       `json:"isSub"`
	IsDub      bool       `json:"isDub"`
	IsRegional bool       `json:"isRegional"`
	Type       StreamType `json:"type"`
}

// DownloadLink is a direct download option, extracted from a different page
// region than the streaming sources.
type DownloadLink struct {
	Quality string `json:"quality,omitempty"`
	Host    string `json:"host"`
	URL     string `json:"url"`
	Text    string `json:"text,omitempty"`
}

// AvailabilityInfo is the resolved language/sub/dub view for one episode.
type AvailabilityInfo struct {
	HasSub           bool     `json:"hasSub"`
	HasDub           bool     `json:"hasDub"`
	IsRegional       bool     `json:"isRegional"`
	Languages        []string `json:"languages"`
	ResolvedLanguage string   `json:"resolvedLanguage"`
}

// StreamResult is the Stream extractor's result.
type StreamResult struct {
	Sources       []StreamSource   `json:"sources"`
	DownloadLinks []DownloadLink   `json:"downloadLinks"`
	Language      AvailabilityInfo `json:"language"`
	IsDualAudio   bool             `json:"isDualAudio"`
	IsRegional    bool             `json:"isRegional"`
}

// RankedItem is a content item with its 1-based position in a ranked list.
type RankedItem struct {
	ContentItem
	Rank int `json:"rank"`
}

// HomePayload is the Home aggregator's result. IsFallback marks the static
// payload served when the source site could not be reached at all.
type HomePayload struct {
	Spotlight         []RankedItem  `json:"spotlight"`
	Trending          []RankedItem  `json:"trending"`
	MostWatchedSeries []ContentItem `json:"mostWatchedSeries"`
	MostWatchedMovies []ContentItem `json:"mostWatchedMovies"`
	FreshDrops        []ContentItem `json:"freshDrops"`
	UpcomingEpisodes  []ContentItem `json:"upcomingEpisodes"`
	OnAirSeries       []ContentItem `json:"onAirSeries"`
	NewArrivals       []ContentItem `json:"newArrivals"`
	CartoonHighlights []ContentItem `json:"cartoonHighlights"`
	TotalItems        int           `json:"totalItems"`
	IsFallback        bool          `json:"isFallback"`
}

// PagedResult is a single page of a listing (movies, search, genre).
type PagedResult struct {
	Items   []ContentItem `json:"items"`
	Page    int           `json:"page"`
	HasNext bool          `json:"hasNext"`
	Total   int           `json:"total"`
}
