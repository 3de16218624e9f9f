// Package utils holds the pure text and URL helpers shared by the extractors.
package utils

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	yearRegex       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	posterSizeRegex = regexp.MustCompile(`-\d{2,4}x\d{2,4}(\.\w+)$`)
)

// CleanText collapses runs of whitespace and trims a string.
func CleanText(text string) string {
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ParseInt safely parses a string to int, returning 0 on error.
func ParseInt(s string) int {
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return val
}

// ParseYear extracts a release year from free text. Years outside
// [1960, currentYear+2] are rejected; when no sane year is present the result
// is nil rather than a default.
func ParseYear(text string) *int {
	for _, match := range yearRegex.FindAllString(text, -1) {
		year, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		if year >= 1960 && year <= time.Now().Year()+2 {
			return &year
		}
	}
	return nil
}

// TruncateString truncates a string to maxLen characters, appending "..."
// when something was cut.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// ExtractIDFromURL derives the stable content slug from a canonical URL path.
// It is idempotent: passing an already-extracted ID returns the same ID.
func ExtractIDFromURL(rawURL string) string {
	s := strings.TrimSuffix(strings.TrimSpace(rawURL), "/")
	if s == "" {
		return ""
	}
	if idx := strings.Index(s, "?"); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.Index(s, "#"); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		s = s[idx+1:]
	}
	return s
}

// KindSegment returns the catalog segment ("series", "movies", "cartoon")
// a URL path resolves under, or "" when none matches.
func KindSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for _, part := range strings.Split(u.Path, "/") {
		switch part {
		case "series", "movies", "cartoon":
			return part
		}
	}
	return ""
}

// AbsoluteURL resolves href against base and forces the https scheme. All
// URLs leave the extraction core in absolute, https-qualified form.
func AbsoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if !u.IsAbs() {
		b, err := url.Parse(base)
		if err != nil {
			return ""
		}
		u = b.ResolveReference(u)
	}
	if u.Scheme == "http" {
		u.Scheme = "https"
	}
	return u.String()
}

// UpgradePosterURL rewrites a thumbnail poster URL to its full-resolution
// variant by dropping the WxH size suffix. Used as the backdrop fallback when
// an item's detail page could not be fetched.
func UpgradePosterURL(poster string) string {
	if poster == "" {
		return ""
	}
	return posterSizeRegex.ReplaceAllString(poster, "$1")
}

// DefaultString returns the first non-empty string.
func DefaultString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
