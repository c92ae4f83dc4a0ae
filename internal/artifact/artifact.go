// Package artifact locates, encodes, and cleans up the files the extraction
// tool leaves in the temp directory.
package artifact

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/mediagrab/mediagrab/internal/apperrors"
)

// maxTitleLength bounds the sanitized display title.
const maxTitleLength = 100

// Locate finds the artifact produced for the given unique identifier. The
// extraction tool decides the final extension, so the lookup globs
// <tempDir>/<id>.* and takes the first match. A miss yields
// *apperrors.ErrArtifactMissing.
func Locate(tempDir, id string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(tempDir, id+".*"))
	if err != nil {
		return "", fmt.Errorf("searching for artifact %s: %w", id, err)
	}
	if len(matches) == 0 {
		return "", apperrors.NewArtifactMissingError(id)
	}
	return matches[0], nil
}

// Encode reads the artifact into memory and returns it base64-encoded.
// Read failures propagate to the caller's generic error path.
func Encode(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading artifact %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Cleanup removes the artifact. Best-effort: it never reports failure, since
// cleanup runs on every exit path and must not mask the original outcome.
func Cleanup(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

// SanitizeTitle converts tool-reported title metadata into a safe
// display filename stem: NFKD-normalized, keeping only letters, digits,
// space, hyphen, and underscore, truncated to 100 runes. Titles that
// sanitize to nothing become "download".
func SanitizeTitle(title string) string {
	normalized := norm.NFKD.String(title)

	var b strings.Builder
	for _, r := range normalized {
		switch {
		case unicode.Is(unicode.Mn, r):
			// Combining marks stripped by NFKD decomposition.
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}

	sanitized := strings.TrimSpace(b.String())
	if runes := []rune(sanitized); len(runes) > maxTitleLength {
		sanitized = strings.TrimSpace(string(runes[:maxTitleLength]))
	}
	if sanitized == "" {
		return "download"
	}
	return sanitized
}

// DisplayFilename derives the user-facing filename from the sanitized title
// and the artifact's actual extension on disk.
func DisplayFilename(title, artifactPath string) string {
	ext := strings.TrimPrefix(filepath.Ext(artifactPath), ".")
	if ext == "" {
		return SanitizeTitle(title)
	}
	return SanitizeTitle(title) + "." + ext
}
