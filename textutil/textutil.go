// Package textutil holds the small text normalization helpers shared by the
// platform adapters: HTML stripping for listing descriptions, tag
// normalization for filter comparisons, and URL path joining.
package textutil

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// StripHTML removes markup from a listing description: tags are replaced by
// a single space (so adjacent blocks stay separated), whitespace runs
// collapse to one space, entities are decoded and the result is trimmed.
func StripHTML(raw string) string {
	s := tagPattern.ReplaceAllString(raw, " ")
	s = CollapseSpace(s)
	return strings.TrimSpace(html.UnescapeString(s))
}

// CollapseSpace replaces every whitespace run with a single space.
func CollapseSpace(s string) string {
	return spacePattern.ReplaceAllString(s, " ")
}

// NormalizeTag prepares a raw tag, category or mapping key for comparison:
// entity-decoded, lowercased, trimmed.
func NormalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(html.UnescapeString(s)))
}

// Unescape decodes HTML entities and trims surrounding whitespace, keeping
// the original case. Used for display fields like names and variant tags.
func Unescape(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}

// JoinPath joins URL path elements onto a base URL without doubling slashes.
func JoinPath(base string, elem ...string) string {
	out := strings.TrimRight(base, "/")
	for _, e := range elem {
		e = strings.Trim(e, "/")
		if e == "" {
			continue
		}
		out += "/" + e
	}
	return out
}
