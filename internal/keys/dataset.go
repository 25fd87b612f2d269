package keys

import (
	"path"
	"strings"
)

// sanitizeKey replaces spaces with hyphens and lowercases the string.
func sanitizeKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}

// Dataset returns the canonical S3 key for a tabular dataset file.
func Dataset(name string) string {
	return "datasets/" + sanitizeKey(path.Base(name))
}
