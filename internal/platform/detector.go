// Package platform classifies media URLs into the closed set of supported
// platforms using ordered substring rules.
package platform

import (
	"strings"

	"github.com/mediagrab/mediagrab/internal/models"
)

// rule pairs a match predicate with the platform it selects.
type rule struct {
	matches func(url string) bool
	tag     models.Platform
}

func containsAny(markers ...string) func(string) bool {
	return func(url string) bool {
		for _, marker := range markers {
			if strings.Contains(url, marker) {
				return true
			}
		}
		return false
	}
}

// rules are evaluated in order against the lower-cased URL; the first match
// wins. Instagram comes first: reel URLs shared through youtube.com redirects
// would otherwise be misclassified, and "/reel/" is the stronger signal.
var rules = []rule{
	{containsAny("instagram.com", "/reel/", "/reels/"), models.PlatformInstagram},
	{containsAny("youtube.com", "youtu.be"), models.PlatformYouTube},
}

// Detect classifies a raw URL. It is total: URLs matching no rule yield
// PlatformUnsupported, never an error.
func Detect(url string) models.Platform {
	lower := strings.ToLower(url)
	for _, r := range rules {
		if r.matches(lower) {
			return r.tag
		}
	}
	return models.PlatformUnsupported
}
