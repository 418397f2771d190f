package text

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lowercases phrase and removes question marks, the form the
// classifier expects its input in.
func Normalize(phrase string) string {
	// Casers keep state, so each call gets its own.
	lower := cases.Lower(language.English)
	return strings.ReplaceAll(lower.String(phrase), "?", "")
}

// Tokenize splits a normalized phrase on whitespace.
func Tokenize(phrase string) []string {
	return strings.Fields(phrase)
}

// Keywords returns the sorted, distinct stems of the non-stopword tokens in
// phrase. It is used to tag stored phrases for full-text search, so tokens
// are split on anything that is not a letter or digit.
func Keywords(phrase string, stopwords StopwordSet, stemmer Stemmer) []string {
	words := strings.FieldsFunc(Normalize(phrase), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool)
	var keywords []string
	for _, tok := range words {
		if stopwords.Contains(tok) {
			continue
		}
		stem := stemmer.Stem(tok)
		if seen[stem] {
			continue
		}
		seen[stem] = true
		keywords = append(keywords, stem)
	}

	sort.Strings(keywords)
	return keywords
}
