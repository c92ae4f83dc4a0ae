// Package service orchestrates a download request end to end: platform
// detection, option building, extraction, artifact lookup, encoding, and
// cleanup. Every failure is converted into a structured error response at
// this boundary; callers never see a raw error.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/bulkhead"
	"github.com/failsafe-go/failsafe-go/timeout"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediagrab/mediagrab/internal/apperrors"
	"github.com/mediagrab/mediagrab/internal/artifact"
	"github.com/mediagrab/mediagrab/internal/cache"
	"github.com/mediagrab/mediagrab/internal/config"
	"github.com/mediagrab/mediagrab/internal/extractor"
	"github.com/mediagrab/mediagrab/internal/metrics"
	"github.com/mediagrab/mediagrab/internal/models"
	"github.com/mediagrab/mediagrab/internal/platform"
)

// User-facing messages. Validation and mapping failures keep stable wording
// so API consumers can rely on them.
const (
	msgURLRequired    = "URL is required"
	msgUnsupportedURL = "Unsupported URL. Only YouTube and Instagram URLs are supported."
	msgInvalidFormat  = "Invalid format. Supported formats are mp4 and mp3."
	msgPrivate        = "This video is private and cannot be downloaded"
	msgUnavailable    = "This video is unavailable"
	msgFileMissing    = "Download completed but file not found"
	msgTimedOut       = "Download timed out"
	msgBusy           = "Server is busy, please try again later"
)

// Downloader handles download requests end to end.
type Downloader interface {
	Download(ctx context.Context, req models.DownloadRequest) *models.DownloadResponse
}

// Options configures a DownloadService. All filesystem locations and
// credential paths are injected here rather than read from globals.
type Options struct {
	// TempDir is where extraction artifacts are staged. Created on demand.
	TempDir string

	// CookieFiles maps each platform to its credential file path.
	CookieFiles map[models.Platform]string

	// UserAgent is sent to platforms that reject non-browser clients.
	UserAgent string

	// Timeout bounds a single extraction. Zero disables the bound.
	Timeout time.Duration

	// MaxConcurrent caps simultaneous extractions. Zero means unlimited.
	MaxConcurrent int

	// Cache, when non-nil, stores completed responses keyed by
	// platform/format/URL so repeat requests skip extraction.
	Cache cache.Cache
}

// DownloadService implements Downloader.
type DownloadService struct {
	extractor extractor.Extractor
	opts      Options
	executor  failsafe.Executor[*extractor.Result]
	logger    zerolog.Logger
}

// NewDownloader creates a download service around the given extractor.
func NewDownloader(ext extractor.Extractor, opts Options) *DownloadService {
	var policies []failsafe.Policy[*extractor.Result]
	if opts.MaxConcurrent > 0 {
		policies = append(policies,
			bulkhead.NewBuilder[*extractor.Result](uint(opts.MaxConcurrent)).
				WithMaxWaitTime(30*time.Second).
				Build())
	}
	if opts.Timeout > 0 {
		policies = append(policies, timeout.New[*extractor.Result](opts.Timeout))
	}

	return &DownloadService{
		extractor: ext,
		opts:      opts,
		executor:  failsafe.With[*extractor.Result](policies...),
		logger:    config.GetLogger(),
	}
}

// Download runs the full request flow. The returned response is terminal:
// status is either success or error, and any temp artifact created along the
// way has been removed by the time it returns.
func (s *DownloadService) Download(ctx context.Context, req models.DownloadRequest) *models.DownloadResponse {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return models.ErrorResponse(msgURLRequired)
	}

	format, ok := models.ParseFormat(req.Format)
	if !ok {
		return models.ErrorResponse(msgInvalidFormat)
	}

	detected := platform.Detect(url)
	if detected == models.PlatformUnsupported {
		s.logger.Debug().Str("url", url).Msg("Rejected unsupported URL")
		metrics.DownloadsTotal.WithLabelValues(detected.String(), format.String(), models.StatusError).Inc()
		return s.failureResponse(detected, apperrors.NewUnsupportedURLError(url))
	}

	cacheKey := fmt.Sprintf("%s|%s|%s", detected, format, url)
	if cached := s.cachedResponse(cacheKey); cached != nil {
		s.logger.Debug().Str("url", url).Msg("Serving download from cache")
		return cached
	}

	start := time.Now()
	resp := s.download(ctx, url, detected, format)

	metrics.DownloadsTotal.WithLabelValues(detected.String(), format.String(), resp.Status).Inc()
	metrics.DownloadDuration.WithLabelValues(detected.String(), format.String()).Observe(time.Since(start).Seconds())

	if resp.Status == models.StatusSuccess {
		s.storeResponse(cacheKey, resp)
	}
	return resp
}

func (s *DownloadService) download(ctx context.Context, url string, p models.Platform, f models.Format) *models.DownloadResponse {
	if err := os.MkdirAll(s.opts.TempDir, 0o755); err != nil {
		s.logger.Error().Err(err).Str("dir", s.opts.TempDir).Msg("Failed to create temp directory")
		return models.ErrorResponse(fmt.Sprintf("An error occurred: %v", err))
	}

	id := uuid.NewString()
	template := filepath.Join(s.opts.TempDir, id+".%(ext)s")
	extractOpts := extractor.BuildOptions(p, f, template, extractor.BuildConfig{
		CookieFiles: s.opts.CookieFiles,
		UserAgent:   s.opts.UserAgent,
	})

	s.logger.Info().
		Str("url", url).
		Stringer("platform", p).
		Stringer("format", f).
		Str("id", id).
		Msg("Starting download")

	result, err := s.runExtraction(ctx, url, extractOpts)
	if err != nil {
		// A failed or aborted extraction may still have left a partial
		// artifact behind.
		s.removeArtifact(id)
		return s.failureResponse(p, err)
	}

	path, err := artifact.Locate(s.opts.TempDir, id)
	if err != nil {
		s.logger.Warn().Str("id", id).Msg("Extraction succeeded but artifact is missing")
		return models.ErrorResponse(msgFileMissing)
	}
	defer artifact.Cleanup(path)

	data, err := artifact.Encode(path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("Failed to encode artifact")
		return models.ErrorResponse(fmt.Sprintf("An error occurred: %v", err))
	}

	filename := artifact.DisplayFilename(result.Title, path)
	s.logger.Info().
		Str("id", id).
		Str("filename", filename).
		Msg("Download completed")

	return &models.DownloadResponse{
		Status:   models.StatusSuccess,
		Filename: filename,
		Data:     data,
		Message:  fmt.Sprintf("Successfully downloaded from %s", p.DisplayName()),
	}
}

// runExtraction executes the extractor under the configured bulkhead and
// timeout policies. The execution's context is canceled when the timeout
// fires, which kills the external process.
func (s *DownloadService) runExtraction(ctx context.Context, url string, opts extractor.Options) (*extractor.Result, error) {
	metrics.ExtractionsInFlight.Inc()
	defer metrics.ExtractionsInFlight.Dec()

	return s.executor.WithContext(ctx).GetWithExecution(
		func(exec failsafe.Execution[*extractor.Result]) (*extractor.Result, error) {
			return s.extractor.Extract(exec.Context(), url, opts)
		})
}

// failureResponse maps an extraction failure onto the user-facing taxonomy.
func (s *DownloadService) failureResponse(p models.Platform, err error) *models.DownloadResponse {
	switch {
	case errors.Is(err, timeout.ErrExceeded):
		return models.ErrorResponse(msgTimedOut)
	case errors.Is(err, bulkhead.ErrFull):
		return models.ErrorResponse(msgBusy)
	}

	var unsupportedErr *apperrors.ErrUnsupportedURL
	if errors.As(err, &unsupportedErr) {
		return models.ErrorResponse(msgUnsupportedURL)
	}

	var extractionErr *apperrors.ErrExtraction
	if errors.As(err, &extractionErr) {
		switch apperrors.ClassifyExtractionFailure(extractionErr.Output) {
		case apperrors.FailurePrivate:
			return models.ErrorResponse(msgPrivate)
		case apperrors.FailureUnavailable:
			return models.ErrorResponse(msgUnavailable)
		case apperrors.FailureAuthRequired:
			return models.ErrorResponse(fmt.Sprintf(
				"Authentication required. Please ensure %s is properly configured.",
				s.cookieFileName(p)))
		default:
			return models.ErrorResponse(fmt.Sprintf("Download failed: %s", extractionErr.Output))
		}
	}

	// Unclassified failures are worth reporting upstream.
	sentry.CaptureException(err)
	s.logger.Error().Err(err).Msg("Unclassified download failure")
	return models.ErrorResponse(fmt.Sprintf("An error occurred: %v", err))
}

func (s *DownloadService) cookieFileName(p models.Platform) string {
	if path := s.opts.CookieFiles[p]; path != "" {
		return filepath.Base(path)
	}
	return "cookies.txt"
}

// removeArtifact clears any file carrying the given identifier. Best-effort.
func (s *DownloadService) removeArtifact(id string) {
	if path, err := artifact.Locate(s.opts.TempDir, id); err == nil {
		artifact.Cleanup(path)
	}
}

func (s *DownloadService) cachedResponse(key string) *models.DownloadResponse {
	if s.opts.Cache == nil {
		return nil
	}
	raw, ok := s.opts.Cache.Get(key)
	if !ok {
		return nil
	}
	var resp models.DownloadResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.logger.Warn().Err(err).Msg("Discarding undecodable cache entry")
		return nil
	}
	return &resp
}

func (s *DownloadService) storeResponse(key string, resp *models.DownloadResponse) {
	if s.opts.Cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	s.opts.Cache.Set(key, raw)
}
