package apperrors

import (
	"fmt"
	"strings"
)

// ErrExtraction is reported when the extraction tool fails. Output carries
// the tool's combined diagnostic output so callers can classify the failure.
type ErrExtraction struct {
	Output string
}

// Error implements the error interface.
func (e *ErrExtraction) Error() string {
	return fmt.Sprintf("extraction failed: %s", e.Output)
}

// Is allows for error checking with errors.Is().
func (e *ErrExtraction) Is(target error) bool {
	_, ok := target.(*ErrExtraction)
	return ok
}

// NewExtractionError creates a new ErrExtraction.
func NewExtractionError(output string) *ErrExtraction {
	return &ErrExtraction{Output: output}
}

// ErrArtifactMissing is returned when extraction reported success but no file
// matching the request's unique identifier exists in the temp directory.
type ErrArtifactMissing struct {
	ID string
}

// Error implements the error interface.
func (e *ErrArtifactMissing) Error() string {
	return fmt.Sprintf("no artifact found for download %s", e.ID)
}

// Is allows for error checking with errors.Is().
func (e *ErrArtifactMissing) Is(target error) bool {
	_, ok := target.(*ErrArtifactMissing)
	return ok
}

// NewArtifactMissingError creates a new ErrArtifactMissing.
func NewArtifactMissingError(id string) *ErrArtifactMissing {
	return &ErrArtifactMissing{ID: id}
}

// ErrUnsupportedURL is returned when a URL matches no supported platform.
type ErrUnsupportedURL struct {
	URL string
}

// Error implements the error interface.
func (e *ErrUnsupportedURL) Error() string {
	return fmt.Sprintf("unsupported URL: %s", e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrUnsupportedURL) Is(target error) bool {
	_, ok := target.(*ErrUnsupportedURL)
	return ok
}

// NewUnsupportedURLError creates a new ErrUnsupportedURL.
func NewUnsupportedURLError(url string) *ErrUnsupportedURL {
	return &ErrUnsupportedURL{URL: url}
}

// ExtractionFailureKind classifies an extraction failure into the small
// user-facing taxonomy derived from the tool's output.
type ExtractionFailureKind int

const (
	FailureGeneric ExtractionFailureKind = iota
	FailurePrivate
	FailureUnavailable
	FailureAuthRequired
)

// ClassifyExtractionFailure inspects the tool output for known markers.
// Private and unavailable are checked before the auth markers because
// yt-dlp frequently appends a "sign in" hint to both of those messages.
func ClassifyExtractionFailure(output string) ExtractionFailureKind {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "private"):
		return FailurePrivate
	case strings.Contains(lower, "unavailable"):
		return FailureUnavailable
	case strings.Contains(lower, "sign in") || strings.Contains(lower, "login"):
		return FailureAuthRequired
	default:
		return FailureGeneric
	}
}
