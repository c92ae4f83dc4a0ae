package platform

import (
	"testing"

	"github.com/mediagrab/mediagrab/internal/models"
)

func TestDetect(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		url      string
		expected models.Platform
	}{
		{
			name:     "youtube watch URL",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: models.PlatformYouTube,
		},
		{
			name:     "youtu.be short URL",
			url:      "https://youtu.be/dQw4w9WgXcQ",
			expected: models.PlatformYouTube,
		},
		{
			name:     "youtube uppercase host",
			url:      "https://WWW.YOUTUBE.COM/watch?v=abc",
			expected: models.PlatformYouTube,
		},
		{
			name:     "instagram reel",
			url:      "https://www.instagram.com/reel/XYZ/",
			expected: models.PlatformInstagram,
		},
		{
			name:     "instagram reels plural",
			url:      "https://www.instagram.com/reels/XYZ/",
			expected: models.PlatformInstagram,
		},
		{
			name:     "instagram post",
			url:      "https://instagram.com/p/ABC123/",
			expected: models.PlatformInstagram,
		},
		{
			name:     "bare reel path wins over youtube host",
			url:      "https://www.youtube.com/reel/XYZ",
			expected: models.PlatformInstagram,
		},
		{
			name:     "vimeo is unsupported",
			url:      "https://vimeo.com/12345",
			expected: models.PlatformUnsupported,
		},
		{
			name:     "tiktok is unsupported",
			url:      "https://www.tiktok.com/@user/video/1",
			expected: models.PlatformUnsupported,
		},
		{
			name:     "empty URL",
			url:      "",
			expected: models.PlatformUnsupported,
		},
		{
			name:     "garbage string",
			url:      "not a url at all",
			expected: models.PlatformUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Detect(tt.url); got != tt.expected {
				t.Errorf("Detect(%q) = %v, want %v", tt.url, got, tt.expected)
			}
		})
	}
}

func TestDetect_RuleOrdering(t *testing.T) {
	t.Parallel()
	// A URL carrying markers for both platforms must resolve to Instagram
	// because its rule is evaluated first.
	url := "https://www.instagram.com/reel/XYZ/?shared_from=youtube.com"
	if got := Detect(url); got != models.PlatformInstagram {
		t.Errorf("Detect(%q) = %v, want %v", url, got, models.PlatformInstagram)
	}
}
