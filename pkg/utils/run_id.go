package utils

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeRunChars = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateRunID creates a readable, unique run ID from the world file it simulates.
// Format: {world}-{8charHexUUID}
//
// Example:
//   - Input: worldPath="configs/Iron Works.yaml"
//   - Output: "iron-works-a3f8e2b1"
func GenerateRunID(worldPath string) string {
	return worldSlug(worldPath) + "-" + generateShortUUID()
}

// worldSlug reduces a world file path to a lowercase, hyphen separated base name
func worldSlug(worldPath string) string {
	base := filepath.Base(worldPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	slug := strings.Trim(unsafeRunChars.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if slug == "" || slug == "." {
		return "run"
	}
	return slug
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
