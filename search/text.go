package search

import "strings"

// NormalizeQuery lowercases and trims a raw query string. Search expects
// its query argument in this form.
func NormalizeQuery(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// containsNormalized reports whether field contains the normalized query,
// ignoring the field's case. The query is matched as literal text; it is
// never interpreted as a pattern.
func containsNormalized(field, query string) bool {
	return strings.Contains(strings.ToLower(field), query)
}
