package text

import (
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kljensen/snowball"
)

// DefaultCacheSize bounds the stem cache. The vocabulary seen by the
// classifier is small, so 128 entries covers a full catalog plus input.
const DefaultCacheSize = 128

// Stemmer maps a lowercase word to its root form.
type Stemmer interface {
	Stem(word string) string
}

// SnowballStemmer stems English words with the Snowball (Porter2) algorithm
// and memoizes the results. It is safe for concurrent use.
type SnowballStemmer struct {
	cache *lru.Cache[string, string]
}

func NewSnowballStemmer(size int) (*SnowballStemmer, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &SnowballStemmer{cache: cache}, nil
}

// Stem returns the root form of word. Words without any letter, and words
// the stemmer rejects, come back unchanged.
func (s *SnowballStemmer) Stem(word string) string {
	if stem, ok := s.cache.Get(word); ok {
		return stem
	}
	stem := stemWord(word)
	s.cache.Add(word, stem)
	return stem
}

// Len reports how many stems are currently cached.
func (s *SnowballStemmer) Len() int {
	return s.cache.Len()
}

func stemWord(word string) string {
	if !strings.ContainsFunc(word, unicode.IsLetter) {
		return word
	}
	stem, err := snowball.Stem(word, "english", true)
	if err != nil || stem == "" {
		return word
	}
	return stem
}
