// internal/lyrics/variants_test.go
package lyrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtistVariants(t *testing.T) {
	variants := ArtistVariants("the beatles")
	require.LessOrEqual(t, len(variants), maxArtistVariants)
	assert.Equal(t, "the beatles", variants[0], "the literal trimmed name comes first")
	assert.Contains(t, variants, "The Beatles")
	assert.Contains(t, variants, "beatles")

	variants = ArtistVariants("  adele ")
	assert.Equal(t, []string{"adele", "Adele"}, variants)

	assert.Empty(t, ArtistVariants("   "))
}

func TestArtistVariantsStripArticles(t *testing.T) {
	for input, stripped := range map[string]string{
		"The Rolling Stones": "Rolling Stones",
		"A Tribe Called Quest": "Tribe Called Quest",
		"An Horse": "Horse",
	} {
		assert.Contains(t, ArtistVariants(input), stripped, "input %q", input)
	}
}

func TestWordVariantsPluralization(t *testing.T) {
	cases := map[string][]string{
		"cat":   {"cats"},
		"cats":  {"cat"},
		"city":  {"cities"},
		"cities": {"city"},
		"bus":   {"buses"},
		"buses": {"bus", "buse"},
		"wolf":  {"wolves"},
		"wolves": {"wolf"},
		"knife": {"knives"},
		"knives": {"knife"},
	}
	for word, expected := range cases {
		variants := WordVariants(word)
		assert.Contains(t, variants, word)
		for _, e := range expected {
			assert.Contains(t, variants, e, "word %q should expand to %q", word, e)
		}
	}
}

func TestContainsWord(t *testing.T) {
	lyrics := "All the stray CATS go dancing\nDown by the river tonight"

	assert.True(t, ContainsWord(lyrics, "cat"), "singular query matches plural lyric")
	assert.True(t, ContainsWord(lyrics, "cats"))
	assert.True(t, ContainsWord(lyrics, "River"), "matching is case-insensitive")
	assert.False(t, ContainsWord(lyrics, "rive"), "whole words only, no substrings")
	assert.False(t, ContainsWord(lyrics, "moon"))
	assert.False(t, ContainsWord("catalog of catastrophes", "cat"), "word boundaries hold")
}
