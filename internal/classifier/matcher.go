package classifier

import (
	"strings"

	"github.com/swibrow/intent/internal/text"
)

// Keyword is a configured phrase together with the stems of its words.
// A token matches the keyword when its stem is any one of them.
type Keyword struct {
	Phrase string
	roots  map[string]struct{}
}

// Keywords is an ordered keyword list. Order decides which phrase is
// reported when a token matches several.
type Keywords []Keyword

// Compile stems every word of every phrase once, up front.
func Compile(stemmer text.Stemmer, phrases []string) Keywords {
	kws := make(Keywords, 0, len(phrases))
	for _, phrase := range phrases {
		parts := strings.Fields(phrase)
		kw := Keyword{Phrase: phrase, roots: make(map[string]struct{}, len(parts))}
		for _, part := range parts {
			kw.roots[stemmer.Stem(strings.ToLower(part))] = struct{}{}
		}
		kws = append(kws, kw)
	}
	return kws
}

func (k Keyword) has(root string) bool {
	_, ok := k.roots[root]
	return ok
}

// Matcher decides whether a single token belongs to a keyword list.
type Matcher struct {
	stemmer   text.Stemmer
	stopwords text.StopwordSet
}

func NewMatcher(stemmer text.Stemmer, stopwords text.StopwordSet) *Matcher {
	return &Matcher{stemmer: stemmer, stopwords: stopwords}
}

// Match returns the first keyword phrase in kws containing the stem of
// word. Stopwords never match.
func (m *Matcher) Match(word string, kws Keywords) (string, bool) {
	i := m.index(word, kws)
	if i < 0 {
		return "", false
	}
	return kws[i].Phrase, true
}

func (m *Matcher) index(word string, kws Keywords) int {
	if m.stopwords.Contains(word) {
		return -1
	}
	root := m.stemmer.Stem(word)
	for i, kw := range kws {
		if kw.has(root) {
			return i
		}
	}
	return -1
}
