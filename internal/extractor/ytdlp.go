package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mediagrab/mediagrab/internal/apperrors"
	"github.com/mediagrab/mediagrab/internal/config"
)

// YtdlpExtractor shells out to the yt-dlp binary. The binary does all the
// heavy lifting (site scraping, fetch, merge, transcode via ffmpeg); this
// adapter only translates Options into CLI arguments and reads back the
// metadata JSON the tool prints after a download.
type YtdlpExtractor struct {
	binary string
	logger zerolog.Logger
}

// NewYtdlpExtractor creates an extractor using the given yt-dlp binary name
// or path. An empty binary falls back to "yt-dlp" on PATH.
func NewYtdlpExtractor(binary string) *YtdlpExtractor {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YtdlpExtractor{
		binary: binary,
		logger: config.GetLogger(),
	}
}

// buildArgs translates Options into the yt-dlp CLI surface.
func buildArgs(url string, opts Options) []string {
	args := []string{
		"--quiet",
		"--no-warnings",
		"--no-check-certificates",
		"--no-playlist",
		"--print-json",
		"-f", opts.FormatSelector,
		"-o", opts.OutputTemplate,
	}

	if opts.MergeContainer != "" {
		args = append(args, "--merge-output-format", opts.MergeContainer)
	}
	if opts.CookieFile != "" {
		args = append(args, "--cookies", opts.CookieFile)
	}
	if opts.Transcode != nil {
		args = append(args,
			"--extract-audio",
			"--audio-format", opts.Transcode.Codec,
			"--audio-quality", opts.Transcode.Quality,
		)
	}
	for key, value := range opts.Headers {
		args = append(args, "--add-header", fmt.Sprintf("%s:%s", key, value))
	}

	return append(args, url)
}

// Extract runs the tool synchronously. The artifact lands at the path derived
// from opts.OutputTemplate; the returned Result carries the reported title.
// Tool failures surface as *apperrors.ErrExtraction with the tool's stderr.
func (y *YtdlpExtractor) Extract(ctx context.Context, url string, opts Options) (*Result, error) {
	args := buildArgs(url, opts)

	y.logger.Debug().
		Str("binary", y.binary).
		Str("url", url).
		Str("format", opts.FormatSelector).
		Msg("Invoking extraction tool")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, y.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Context cancellation (timeout, shutdown) is not a tool failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = err.Error()
		}
		y.logger.Warn().
			Str("url", url).
			Str("output", output).
			Msg("Extraction tool failed")
		return nil, apperrors.NewExtractionError(output)
	}

	return &Result{Title: parseTitle(stdout.Bytes())}, nil
}

// metadata is the slice of the tool's JSON output we care about.
type metadata struct {
	Title string `json:"title"`
}

// parseTitle reads the first JSON document on stdout that carries a title.
// The tool prints one JSON object per downloaded entry; a decoder is used
// instead of line scanning because info documents routinely exceed 64KB.
func parseTitle(stdout []byte) string {
	dec := json.NewDecoder(bytes.NewReader(stdout))
	for {
		var info metadata
		if err := dec.Decode(&info); err != nil {
			return ""
		}
		if info.Title != "" {
			return info.Title
		}
	}
}
