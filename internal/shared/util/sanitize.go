package util

import "strings"

// SanitizeFileName removes path separators and returns fallback for empty or
// traversal-looking names.
func SanitizeFileName(name, fallback string) string {
	if strings.Contains(name, "..") {
		return fallback
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return fallback
	}
	return s
}
