package index

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// minTokenRunes is the shortest run of word runes kept as a token.
const minTokenRunes = 2

// Normalize applies NFKC compatibility folding, trims surrounding whitespace
// and lowercases the result. The index and queries share this normalization.
func Normalize(s string) string {
	s = strings.TrimSpace(norm.NFKC.String(s))
	if s == "" {
		return ""
	}
	return strings.ToLower(s)
}

// Tokenize normalizes text and splits it into word tokens.
// A token is a maximal run of letters, digits and underscores at least two runes long.
func Tokenize(text string) []string {
	text = Normalize(text)
	if text == "" {
		return nil
	}

	var tokens []string
	start, runes := -1, 0
	flush := func(end int) {
		if start >= 0 && runes >= minTokenRunes {
			tokens = append(tokens, text[start:end])
		}
		start, runes = -1, 0
	}

	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(text))
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// termCounts tokenizes text and counts occurrences of each term.
func termCounts(text string) map[string]int {
	tokens := Tokenize(text)
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	return counts
}
