// Package extractor wraps the external yt-dlp tool that performs the actual
// network fetch, demuxing, and optional transcode for a media URL.
package extractor

import "context"

// Result carries the metadata reported by the extraction tool after a
// successful download.
type Result struct {
	// Title is the media title as reported by the source platform.
	// Empty when the tool produced no usable metadata.
	Title string
}

// Extractor downloads the media at url according to opts, writing the
// artifact to the path described by opts.OutputTemplate.
type Extractor interface {
	Extract(ctx context.Context, url string, opts Options) (*Result, error)
}
