package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyServers(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		expected Classification
	}{
		{
			name:     "sub and dub labels mean dual audio",
			labels:   []string{"sub", "dub"},
			expected: Classification{IsDualAudio: true, HasSub: true, HasDub: true},
		},
		{
			name:     "sub only still dual audio",
			labels:   []string{"sub"},
			expected: Classification{IsDualAudio: true, HasSub: true},
		},
		{
			name:     "opaque server names mean regional",
			labels:   []string{"vidmast", "doodplay", "server 3"},
			expected: Classification{IsRegional: true},
		},
		{
			name:     "mixed labels keep dual audio",
			labels:   []string{"sub", "vidmast"},
			expected: Classification{IsDualAudio: true, HasSub: true},
		},
		{
			name:     "case and whitespace normalized",
			labels:   []string{" SUB ", "Dub"},
			expected: Classification{IsDualAudio: true, HasSub: true, HasDub: true},
		},
		{
			name:     "no labels classify as nothing",
			labels:   nil,
			expected: Classification{},
		},
		{
			name:     "substring is not an exact label",
			labels:   []string{"subtitle server"},
			expected: Classification{IsRegional: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyServers(tt.labels))
		})
	}
}

func TestIsSubOnlyMarker(t *testing.T) {
	tests := []struct {
		tag      string
		expected bool
	}{
		{"Sub Only", true},
		{"(Sub Only)", true},
		{"sub-only", true},
		{"Sub", true},
		{"(sub)", true},
		{"RAW", true},
		{"No Dub", true},
		{"Dual Audio", false},
		{"Hindi Dubbed", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSubOnlyMarker(tt.tag), "tag %q", tt.tag)
		})
	}
}

func TestDetect(t *testing.T) {
	t.Run("orders detections by priority", func(t *testing.T) {
		text := "Available in Telugu and Hindi audio"
		assert.Equal(t, []string{"hindi", "telugu"}, Detect(text))
	})

	t.Run("detects native script variants", func(t *testing.T) {
		assert.Equal(t, []string{"hindi"}, Detect("ऑडियो: हिंदी"))
		assert.Equal(t, []string{"tamil"}, Detect("ஒலி: தமிழ்"))
	})

	t.Run("eng token detects english", func(t *testing.T) {
		assert.Equal(t, []string{"english"}, Detect("ENG audio available"))
	})

	t.Run("no languages in text", func(t *testing.T) {
		assert.Empty(t, Detect("server 1, server 2"))
	})
}

func TestResolve(t *testing.T) {
	t.Run("prefers requested language when detected", func(t *testing.T) {
		assert.Equal(t, "tamil", Resolve("Hindi and Tamil audio", "tamil"))
	})

	t.Run("falls back to detected language when preference is absent", func(t *testing.T) {
		// Page mentions hindi; caller wants english but no english token exists.
		assert.Equal(t, "hindi", Resolve("hindi audio track", "english"))
	})

	t.Run("falls back through the priority order", func(t *testing.T) {
		assert.Equal(t, "english", Resolve("english and telugu", "japanese"))
	})

	t.Run("resolves to original when nothing is detected", func(t *testing.T) {
		assert.Equal(t, Original, Resolve("nothing useful here", "hindi"))
	})
}
