package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pranjalweb/filmveer/internal/scraper/lang"
	"github.com/pranjalweb/filmveer/internal/scraper/utils"
)

const serverGridSelector = ".server-grid, #servers, .server-list"

// streamHostDomains are the known streaming hosts scanned by the last
// fallback discovery strategy.
var streamHostDomains = []string{
	"streamtape", "dood", "filemoon", "mixdrop", "vidmoly", "mp4upload", "streamwish",
}

// downloadHostPatterns key the download-link region: only anchors pointing at
// one of these hosts count as download links.
var downloadHostPatterns = []string{
	"drive.google", "gdflix", "filepress", "hubcloud", "gofile", "pixeldrain",
}

var (
	iframeKeywordRegex = regexp.MustCompile(`(?i)(embed|player|stream|video)`)
	qualityRegex       = regexp.MustCompile(`(?i)\b(2160p|1440p|1080p|720p|480p|360p|4k)\b`)
)

// Stream extracts playable sources and download links for one episode.
// preferredLanguage steers language resolution but never filters sources; an
// empty value falls back to the configured default.
func (s *Scraper) Stream(ctx context.Context, episodeID, preferredLanguage string) (*StreamResult, error) {
	if preferredLanguage == "" {
		preferredLanguage = s.preferredLang
	}
	pageURL := s.episodeURL(episodeID)
	doc, err := s.document(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	grid := doc.Find(serverGridSelector).First()
	labels := serverLabels(grid)
	classification := lang.ClassifyServers(labels)

	seen := make(map[string]bool)
	sources := s.extractGridSources(grid, labels, classification, seen)

	// The three fallback strategies run in fixed order only when the grid
	// produced nothing; every hit is deduplicated against the global set.
	if len(sources) == 0 {
		sources = append(sources, s.scanDataAttributes(doc, classification, seen, len(sources))...)
		sources = append(sources, s.scanIframes(doc, classification, seen, len(sources))...)
		sources = append(sources, s.scanHostLinks(doc, classification, seen, len(sources))...)
	}

	pageText := doc.Find("body").Text()
	detected := lang.Detect(pageText)
	availability := AvailabilityInfo{
		HasSub:           classification.HasSub,
		HasDub:           classification.HasDub,
		IsRegional:       classification.IsRegional,
		Languages:        detected,
		ResolvedLanguage: lang.Resolve(pageText, preferredLanguage),
	}

	return &StreamResult{
		Sources:       sources,
		DownloadLinks: s.extractDownloadLinks(doc),
		Language:      availability,
		IsDualAudio:   classification.IsDualAudio,
		IsRegional:    classification.IsRegional,
	}, nil
}

// serverLabels returns the short label of every server button in grid order.
func serverLabels(grid *goquery.Selection) []string {
	var labels []string
	grid.Find("button, .server-btn, li").Each(func(_ int, btn *goquery.Selection) {
		labels = append(labels, strings.ToLower(utils.CleanText(btn.Text())))
	})
	return labels
}

// extractGridSources mines each server button for a source URL: first an
// embedded media element directly inside the button, then the nearest
// enclosing player container.
func (s *Scraper) extractGridSources(grid *goquery.Selection, labels []string, c lang.Classification, seen map[string]bool) []StreamSource {
	var sources []StreamSource
	grid.Find("button, .server-btn, li").Each(func(i int, btn *goquery.Selection) {
		src, isIframe := mediaURL(btn)
		if src == "" {
			container := btn.Closest(".player, .player-wrap, .play-box")
			src, isIframe = mediaURL(container)
		}
		if src == "" {
			for _, attr := range []string{"data-src", "data-url", "data-embed"} {
				if v := strings.TrimSpace(btn.AttrOr(attr, "")); v != "" {
					src, isIframe = v, true
					break
				}
			}
		}
		if src == "" {
			return
		}

		abs := utils.AbsoluteURL(s.baseURL, src)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true

		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		sources = append(sources, StreamSource{
			Player:     playerName(i+1, label, c),
			URL:        abs,
			IsSub:      c.IsDualAudio && label != "dub",
			IsDub:      c.IsDualAudio && label == "dub",
			IsRegional: c.IsRegional,
			Type:       classifyStreamType(abs, isIframe),
		})
	})
	return sources
}

// playerName labels a source by the button's 1-based grid position. Regional
// content gets plain player numbers; dual-audio content is split into sub
// and dub variants.
func playerName(n int, label string, c lang.Classification) string {
	if c.IsDualAudio {
		if label == "dub" {
			return fmt.Sprintf("HD %d (Dub)", n)
		}
		return fmt.Sprintf("HD %d (Sub)", n)
	}
	return fmt.Sprintf("Player %d", n)
}

// mediaURL finds a playable URL inside sel, reporting whether it came from
// an iframe.
func mediaURL(sel *goquery.Selection) (string, bool) {
	if sel == nil || sel.Length() == 0 {
		return "", false
	}
	if v := firstAttr(sel, "src", "iframe"); v != "" {
		return v, true
	}
	if v := firstAttr(sel, "data-src", "iframe"); v != "" {
		return v, true
	}
	for _, q := range []string{"video source", "video", "source"} {
		if v := firstAttr(sel, "src", q); v != "" {
			return v, false
		}
	}
	return "", false
}

// scanDataAttributes is fallback strategy one: raw data attributes anywhere
// on the page.
func (s *Scraper) scanDataAttributes(doc *goquery.Document, c lang.Classification, seen map[string]bool, offset int) []StreamSource {
	var sources []StreamSource
	for _, attr := range []string{"data-file", "data-stream", "data-url"} {
		doc.Find(fmt.Sprintf("[%s]", attr)).Each(func(_ int, el *goquery.Selection) {
			raw := strings.TrimSpace(el.AttrOr(attr, ""))
			if !looksLikeURL(raw) {
				return
			}
			abs := utils.AbsoluteURL(s.baseURL, raw)
			if abs == "" || seen[abs] {
				return
			}
			seen[abs] = true
			sources = append(sources, StreamSource{
				Player:     playerName(offset+len(sources)+1, "", c),
				URL:        abs,
				IsSub:      c.IsDualAudio,
				IsRegional: c.IsRegional,
				Type:       classifyStreamType(abs, false),
			})
		})
	}
	return sources
}

// scanIframes is fallback strategy two: iframes whose src carries a player
// keyword.
func (s *Scraper) scanIframes(doc *goquery.Document, c lang.Classification, seen map[string]bool, offset int) []StreamSource {
	var sources []StreamSource
	doc.Find("iframe[src], iframe[data-src]").Each(func(_ int, el *goquery.Selection) {
		raw := utils.DefaultString(
			strings.TrimSpace(el.AttrOr("data-src", "")),
			strings.TrimSpace(el.AttrOr("src", "")),
		)
		if raw == "" || !iframeKeywordRegex.MatchString(raw) {
			return
		}
		abs := utils.AbsoluteURL(s.baseURL, raw)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		sources = append(sources, StreamSource{
			Player:     playerName(offset+len(sources)+1, "", c),
			URL:        abs,
			IsSub:      c.IsDualAudio,
			IsRegional: c.IsRegional,
			Type:       classifyStreamType(abs, true),
		})
	})
	return sources
}

// scanHostLinks is fallback strategy three: anchors pointing at known
// streaming-host domains.
func (s *Scraper) scanHostLinks(doc *goquery.Document, c lang.Classification, seen map[string]bool, offset int) []StreamSource {
	var sources []StreamSource
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		abs := utils.AbsoluteURL(s.baseURL, a.AttrOr("href", ""))
		if abs == "" || seen[abs] || !matchesHost(abs, streamHostDomains) {
			return
		}
		seen[abs] = true
		sources = append(sources, StreamSource{
			Player:     playerName(offset+len(sources)+1, "", c),
			URL:        abs,
			IsSub:      c.IsDualAudio,
			IsRegional: c.IsRegional,
			Type:       classifyStreamType(abs, false),
		})
	})
	return sources
}

// extractDownloadLinks mines the download region, independent of the stream
// sources, keyed by known download hosts.
func (s *Scraper) extractDownloadLinks(doc *goquery.Document) []DownloadLink {
	var links []DownloadLink
	seen := make(map[string]bool)
	region := doc.Find("#download, .download-box, .download-links").First()
	if region.Length() == 0 {
		region = doc.Selection
	}
	region.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		abs := utils.AbsoluteURL(s.baseURL, a.AttrOr("href", ""))
		if abs == "" || seen[abs] || !matchesHost(abs, downloadHostPatterns) {
			return
		}
		seen[abs] = true
		text := utils.CleanText(a.Text())
		links = append(links, DownloadLink{
			Quality: strings.ToLower(qualityRegex.FindString(text)),
			Host:    hostOf(abs),
			URL:     abs,
			Text:    text,
		})
	})
	return links
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "//")
}

func matchesHost(rawURL string, patterns []string) bool {
	host := hostOf(rawURL)
	for _, p := range patterns {
		if strings.Contains(host, p) {
			return true
		}
	}
	return false
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// classifyStreamType tags a URL with how it should be played.
func classifyStreamType(rawURL string, isIframe bool) StreamType {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, ".m3u8"):
		return StreamTypeHLS
	case strings.Contains(lower, ".mp4"):
		return StreamTypeMP4
	case strings.Contains(lower, "embed"):
		return StreamTypeEmbed
	case isIframe:
		return StreamTypeIframe
	default:
		return StreamTypeDirect
	}
}
