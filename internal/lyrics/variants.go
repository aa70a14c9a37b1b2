// internal/lyrics/variants.go
package lyrics

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxArtistVariants bounds the external-call fan-out per verification.
const maxArtistVariants = 3

var titler = cases.Title(language.English)

// ArtistVariants expands an artist name into the lookup candidates that
// counter common formatting mismatches: the literal trimmed name, a
// title-cased form, and the name with a leading article stripped (plus the
// title-cased version of that). Duplicates are removed case-insensitively
// and the set is capped at maxArtistVariants.
func ArtistVariants(artist string) []string {
	artist = strings.TrimSpace(artist)
	if artist == "" {
		return nil
	}

	candidates := []string{artist, titler.String(strings.ToLower(artist))}
	if stripped := stripArticle(artist); stripped != artist {
		candidates = append(candidates, stripped, titler.String(strings.ToLower(stripped)))
	}

	seen := map[string]bool{}
	variants := make([]string, 0, maxArtistVariants)
	for _, c := range candidates {
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		variants = append(variants, c)
		if len(variants) == maxArtistVariants {
			break
		}
	}
	return variants
}

// stripArticle removes a leading "the", "a" or "an".
func stripArticle(name string) string {
	lower := strings.ToLower(name)
	for _, article := range []string{"the ", "an ", "a "} {
		if strings.HasPrefix(lower, article) {
			return strings.TrimSpace(name[len(article):])
		}
	}
	return name
}

// WordVariants returns the target word together with its regular
// singular/plural counterparts, so "cat" finds lyrics singing "cats" and
// vice versa. Only regular English patterns are handled
// (-s, -es, -ies/-y, -ves/-f/-fe).
func WordVariants(word string) []string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil
	}

	variants := []string{word}
	add := func(v string) {
		if v == "" {
			return
		}
		for _, existing := range variants {
			if existing == v {
				return
			}
		}
		variants = append(variants, v)
	}

	// Pluralize.
	switch {
	case strings.HasSuffix(word, "y") && len(word) > 1 && !isVowel(word[len(word)-2]):
		add(strings.TrimSuffix(word, "y") + "ies")
	case strings.HasSuffix(word, "fe"):
		add(strings.TrimSuffix(word, "fe") + "ves")
	case strings.HasSuffix(word, "f"):
		add(strings.TrimSuffix(word, "f") + "ves")
	case strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x") ||
		strings.HasSuffix(word, "z") || strings.HasSuffix(word, "ch") ||
		strings.HasSuffix(word, "sh"):
		add(word + "es")
	default:
		add(word + "s")
	}

	// Singularize.
	switch {
	case strings.HasSuffix(word, "ies"):
		add(strings.TrimSuffix(word, "ies") + "y")
	case strings.HasSuffix(word, "ves"):
		add(strings.TrimSuffix(word, "ves") + "f")
		add(strings.TrimSuffix(word, "ves") + "fe")
	case strings.HasSuffix(word, "es"):
		add(strings.TrimSuffix(word, "es"))
		add(strings.TrimSuffix(word, "s"))
	case strings.HasSuffix(word, "s"):
		add(strings.TrimSuffix(word, "s"))
	}
	return variants
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// ContainsWord reports whether any singular/plural variant of word appears
// as a whole word in the lyrics text, case-insensitively.
func ContainsWord(text, word string) bool {
	variants := WordVariants(word)
	if len(variants) == 0 {
		return false
	}
	quoted := make([]string, len(variants))
	for i, v := range variants {
		quoted[i] = regexp.QuoteMeta(v)
	}
	re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
