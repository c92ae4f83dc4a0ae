package extractor

import (
	"os"

	"github.com/mediagrab/mediagrab/internal/models"
)

// TranscodeSpec asks the extraction tool to convert fetched media into a
// target audio codec at a fixed quality, using its external transcoder hook.
type TranscodeSpec struct {
	Codec   string
	Quality string
}

// Options is the declarative configuration passed to the extraction tool.
// Built fresh per request and never mutated after construction.
type Options struct {
	// FormatSelector is the tool's quality/format selection expression.
	FormatSelector string

	// OutputTemplate is the output path template. It embeds the request's
	// unique identifier so concurrent downloads cannot collide.
	OutputTemplate string

	// MergeContainer forces the merge container for split A/V downloads.
	MergeContainer string

	// CookieFile points at a platform credential file. Only set when the
	// file exists on disk; absent means "proceed unauthenticated".
	CookieFile string

	// Transcode, when non-nil, requests audio extraction into the given
	// codec/quality.
	Transcode *TranscodeSpec

	// Headers are extra HTTP headers the tool sends to the source platform.
	Headers map[string]string
}

// BuildConfig holds the per-platform settings the option builder needs.
// Injected by the caller so nothing here reads global state.
type BuildConfig struct {
	CookieFiles map[models.Platform]string
	UserAgent   string
}

// Format selection expressions, per platform.
const (
	selectorBestMP4   = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio/best"
	selectorBestAudio = "bestaudio/best"
	selectorInstagram = "best[ext=mp4]/best"

	mp3Quality = "192"
)

// BuildOptions produces the extraction configuration for a platform/format
// pair. Pure apart from the credential-file existence check: a missing cookie
// file leaves CookieFile empty rather than producing an error.
//
// Instagram always targets the best mp4 container regardless of the requested
// format; YouTube selects codec-specific quality targets. An mp3 request
// attaches the transcode spec on every platform.
func BuildOptions(p models.Platform, f models.Format, outputTemplate string, cfg BuildConfig) Options {
	opts := Options{
		OutputTemplate: outputTemplate,
		CookieFile:     existingCookieFile(cfg.CookieFiles[p]),
	}

	switch p {
	case models.PlatformInstagram:
		opts.FormatSelector = selectorInstagram
		if cfg.UserAgent != "" {
			opts.Headers = map[string]string{"User-Agent": cfg.UserAgent}
		}
	default:
		if f == models.FormatMP3 {
			opts.FormatSelector = selectorBestAudio
		} else {
			opts.FormatSelector = selectorBestMP4
			opts.MergeContainer = "mp4"
		}
	}

	if f == models.FormatMP3 {
		opts.Transcode = &TranscodeSpec{Codec: "mp3", Quality: mp3Quality}
	}

	return opts
}

func existingCookieFile(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
