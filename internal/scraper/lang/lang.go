// Package lang implements the availability resolver: pure text heuristics
// that classify sub/dub/language support for an episode or item. Everything
// here operates on raw text so it can be exercised with synthetic fixtures.
package lang

import (
	"regexp"
	"strings"
)

// Original is the resolved language when nothing could be detected.
const Original = "original"

// Priority is the fallback chain used when the caller's preferred language is
// not detected on the page.
var Priority = []string{"hindi", "english", "japanese", "tamil", "telugu"}

// keywords maps a language to the tokens (including native-script variants)
// that count as a detection in page text.
var keywords = map[string][]string{
	"hindi":    {"hindi", "हिंदी", "हिन्दी"},
	"english":  {"english", "eng"},
	"japanese": {"japanese", "日本語"},
	"tamil":    {"tamil", "தமிழ்"},
	"telugu":   {"telugu", "తెలుగు"},
}

// subOnlyMarkers match the trailing tag of a season or episode entry that
// marks it as subtitle-only or raw.
var subOnlyMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsub(?:bed)?[\s-]*only\b`),
	regexp.MustCompile(`(?i)^\(?sub(?:bed)?\)?$`),
	regexp.MustCompile(`(?i)\braw\b`),
	regexp.MustCompile(`(?i)\bno[\s-]*dub\b`),
}

// Classification is the tagged result of classifying a server grid.
// Dual-audio and regional are mutually exclusive.
type Classification struct {
	IsDualAudio bool
	IsRegional  bool
	HasSub      bool
	HasDub      bool
}

// ClassifyServers inspects server button labels. An exact "sub" or "dub"
// label means dual-audio content; labels that exist but are all opaque server
// names mean regional content with a single audio track.
func ClassifyServers(labels []string) Classification {
	var c Classification
	seen := false
	for _, label := range labels {
		l := strings.ToLower(strings.TrimSpace(label))
		if l == "" {
			continue
		}
		seen = true
		switch l {
		case "sub":
			c.HasSub = true
		case "dub":
			c.HasDub = true
		}
	}
	if c.HasSub || c.HasDub {
		c.IsDualAudio = true
		return c
	}
	if seen {
		c.IsRegional = true
	}
	return c
}

// IsSubOnlyMarker reports whether a trailing tag flags a sub-only or raw
// release.
func IsSubOnlyMarker(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, re := range subOnlyMarkers {
		if re.MatchString(tag) {
			return true
		}
	}
	return false
}

// Detect returns the languages found in text, ordered by detection
// confidence (the fixed priority order).
func Detect(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, name := range Priority {
		for _, kw := range keywords[name] {
			if containsToken(lower, kw) {
				found = append(found, name)
				break
			}
		}
	}
	return found
}

// Resolve picks the best language for a caller. The preferred language wins
// when it was actually detected in the text; otherwise resolution falls back
// through the priority chain, and finally to "original".
func Resolve(text, preferred string) string {
	detected := Detect(text)
	preferred = strings.ToLower(strings.TrimSpace(preferred))
	for _, d := range detected {
		if d == preferred {
			return d
		}
	}
	if len(detected) > 0 {
		return detected[0]
	}
	return Original
}

// containsToken matches kw in text on word boundaries for ASCII keywords so
// that "eng" does not fire inside unrelated words; native-script keywords
// match as substrings.
func containsToken(text, kw string) bool {
	if kw == "" {
		return false
	}
	if kw[0] > 127 {
		return strings.Contains(text, kw)
	}
	idx := 0
	for {
		i := strings.Index(text[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		beforeOK := start == 0 || !isWordByte(text[start-1])
		afterOK := end == len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
