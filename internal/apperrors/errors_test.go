// Package apperrors tests verify the custom error types (ErrExtraction,
// ErrArtifactMissing, ErrUnsupportedURL), their Error() messages, Is()
// matching semantics, and the extraction failure classifier.
package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrExtraction_Error(t *testing.T) {
	t.Parallel()
	err := &ErrExtraction{Output: "ERROR: Private video"}
	expected := "extraction failed: ERROR: Private video"
	if got := err.Error(); got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
}

func TestErrExtraction_Is(t *testing.T) {
	t.Parallel()
	err := NewExtractionError("boom")

	t.Run("matches another ErrExtraction", func(t *testing.T) {
		if !errors.Is(err, &ErrExtraction{}) {
			t.Error("expected errors.Is to match *ErrExtraction")
		}
	})

	t.Run("matches regardless of output", func(t *testing.T) {
		if !errors.Is(err, &ErrExtraction{Output: "other"}) {
			t.Error("expected errors.Is to match *ErrExtraction regardless of field values")
		}
	})

	t.Run("does not match plain error", func(t *testing.T) {
		if errors.Is(err, errors.New("boom")) {
			t.Error("expected errors.Is not to match a plain error")
		}
	})

	t.Run("matches through fmt.Errorf wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("download: %w", err)
		if !errors.Is(wrapped, &ErrExtraction{}) {
			t.Error("expected errors.Is to match *ErrExtraction through wrapping")
		}
	})
}

func TestErrArtifactMissing(t *testing.T) {
	t.Parallel()
	err := NewArtifactMissingError("6f2c1b9a")

	expected := "no artifact found for download 6f2c1b9a"
	if got := err.Error(); got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
	if !errors.Is(err, &ErrArtifactMissing{}) {
		t.Error("expected errors.Is to match *ErrArtifactMissing")
	}
	if !errors.Is(fmt.Errorf("outer: %w", err), &ErrArtifactMissing{}) {
		t.Error("expected errors.Is to match through wrapping")
	}
}

func TestErrUnsupportedURL(t *testing.T) {
	t.Parallel()
	err := NewUnsupportedURLError("https://example.com/clip")

	expected := "unsupported URL: https://example.com/clip"
	if got := err.Error(); got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
	if !errors.Is(err, &ErrUnsupportedURL{}) {
		t.Error("expected errors.Is to match *ErrUnsupportedURL")
	}
}

func TestErrorTypes_CrossTypeIsolation(t *testing.T) {
	t.Parallel()
	errs := []error{
		&ErrExtraction{Output: "x"},
		&ErrArtifactMissing{ID: "y"},
		&ErrUnsupportedURL{URL: "z"},
	}

	for i, a := range errs {
		for j, b := range errs {
			if i == j {
				continue
			}
			if errors.Is(a, b) {
				t.Errorf("expected errors.Is(%T, %T) to be false", a, b)
			}
		}
	}
}

func TestClassifyExtractionFailure(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		output   string
		expected ExtractionFailureKind
	}{
		{
			name:     "private video",
			output:   "ERROR: [youtube] abc: Private video. Sign in if you've been granted access to this video",
			expected: FailurePrivate,
		},
		{
			name:     "unavailable",
			output:   "ERROR: [youtube] abc: Video unavailable",
			expected: FailureUnavailable,
		},
		{
			name:     "sign in required",
			output:   "ERROR: [instagram] xyz: Sign in to confirm you're not a bot",
			expected: FailureAuthRequired,
		},
		{
			name:     "login required",
			output:   "ERROR: [instagram] xyz: login required to access this content",
			expected: FailureAuthRequired,
		},
		{
			name:     "unknown failure",
			output:   "ERROR: unable to download video data: HTTP Error 403",
			expected: FailureGeneric,
		},
		{
			name:     "empty output",
			output:   "",
			expected: FailureGeneric,
		},
		{
			name:     "case insensitive",
			output:   "ERROR: PRIVATE VIDEO",
			expected: FailurePrivate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifyExtractionFailure(tt.output); got != tt.expected {
				t.Errorf("ClassifyExtractionFailure(%q) = %v, want %v", tt.output, got, tt.expected)
			}
		})
	}
}
