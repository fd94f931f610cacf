// Package search implements the Search Indexer/Query Engine: hashtag
// extraction, retry-protected indexing, and per-type fuzzy query
// composition, grounded on the original indexing_service.py and
// search_service.py.
package search

import (
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// ExtractHashtags returns the distinct, lowercased hashtags found in
// content. Order is not significant (§3, §4.1: dedupe via set).
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]struct{}, len(matches))
	var tags []string
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
