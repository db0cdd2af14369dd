// Package strings provides the normalization helpers shared by the
// preference store and the ranking policy. Every identifier or keyword that
// crosses a store boundary goes through here first, so set membership checks
// can rely on plain string equality.
package strings

import (
	"strings"
	"unicode"
)

// NormalizeKey lowercases and trims a single identifier. A leading "@" is
// stripped so user-entered handles and stored usernames compare equal.
func NormalizeKey(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.TrimPrefix(v, "@")
}

// DedupeAndTrimLower lowercases, trims, and deduplicates a slice, dropping
// empties. Order of first occurrence is preserved.
func DedupeAndTrimLower(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.ToLower(strings.TrimSpace(v))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// Tokenize splits free text into lowercase tokens on any non-alphanumeric
// boundary. Used for the interest-keyword match, which is an exact token-set
// intersection rather than a substring scan.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return DedupeAndTrimLower(fields)
}

// TokensIntersect reports whether any token of text appears in the given set.
// The set is expected to hold normalized (lowercase, trimmed) entries.
func TokensIntersect(text string, set map[string]struct{}) bool {
	if len(set) == 0 || text == "" {
		return false
	}
	for _, tok := range Tokenize(text) {
		if _, ok := set[tok]; ok {
			return true
		}
	}
	return false
}

// ToSet converts a normalized slice into a lookup set.
func ToSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
