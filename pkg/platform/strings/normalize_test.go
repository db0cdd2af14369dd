package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases", input: "Mei", expected: "mei"},
		{name: "trims whitespace", input: "  nok  ", expected: "nok"},
		{name: "strips leading at", input: "@Eleni", expected: "eleni"},
		{name: "empty stays empty", input: "   ", expected: ""},
		{name: "only strips one leading at", input: "@@mateo", expected: "@mateo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeKey(tt.input))
		})
	}
}

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "lowercases and trims", input: []string{"  Foo ", "BAR"}, expected: []string{"foo", "bar"}},
		{name: "dedupes case-insensitively", input: []string{"Foo", "foo", "FOO"}, expected: []string{"foo"}},
		{name: "drops empties", input: []string{"foo", "", "   ", "bar"}, expected: []string{"foo", "bar"}},
		{name: "preserves first-occurrence order", input: []string{"b", "a", "B"}, expected: []string{"b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrimLower(tt.input))
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "splits on punctuation and space", input: "Kyoto, temples & tea", expected: []string{"kyoto", "temples", "tea"}},
		{name: "dedupes tokens", input: "beach Beach BEACH", expected: []string{"beach"}},
		{name: "keeps digits", input: "route 66", expected: []string{"route", "66"}},
		{name: "empty text", input: "  ", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestTokensIntersect(t *testing.T) {
	set := ToSet([]string{"hiking", "food"})

	t.Run("matches exact token", func(t *testing.T) {
		assert.True(t, TokensIntersect("alpine hiking circuit", set))
	})

	t.Run("substring is not a token match", func(t *testing.T) {
		assert.False(t, TokensIntersect("hikingboots review", set))
	})

	t.Run("empty set never matches", func(t *testing.T) {
		assert.False(t, TokensIntersect("hiking", nil))
	})

	t.Run("empty text never matches", func(t *testing.T) {
		assert.False(t, TokensIntersect("", set))
	})
}
