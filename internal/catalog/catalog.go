// Package catalog holds the static classification data: categories with
// their keyword phrases, the greeting table and the stopword list.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/swibrow/intent/internal/text"
)

//go:embed default.yaml
var defaultCatalog []byte

// ErrInvalid is returned when catalog data breaks an invariant.
var ErrInvalid = errors.New("invalid catalog")

type Category struct {
	ID       string   `yaml:"id" json:"id"`
	Label    string   `yaml:"label" json:"label"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

type Greeting struct {
	Phrase string `yaml:"phrase" json:"phrase"`
	Reply  string `yaml:"reply" json:"reply"`
}

// Catalog is read-only once loaded. Category and greeting order is the
// order they were declared in, and matching follows it.
type Catalog struct {
	Categories []Category `yaml:"categories"`
	Greetings  []Greeting `yaml:"greetings"`
	Stopwords  []string   `yaml:"stopwords,omitempty"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog from path. An empty path yields the embedded one.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML catalog data. A catalog without a
// stopword list gets the English one.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if c.Stopwords == nil {
		c.Stopwords = append([]string(nil), text.EnglishStopwords...)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that category IDs are present and unique and that every
// category and greeting is complete.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		switch {
		case cat.ID == "":
			return fmt.Errorf("%w: category %d has no id", ErrInvalid, i)
		case seen[cat.ID]:
			return fmt.Errorf("%w: duplicate category id %q", ErrInvalid, cat.ID)
		case cat.Label == "":
			return fmt.Errorf("%w: category %q has no label", ErrInvalid, cat.ID)
		}
		seen[cat.ID] = true
	}
	for i, g := range c.Greetings {
		if g.Phrase == "" || g.Reply == "" {
			return fmt.Errorf("%w: greeting %d needs both phrase and reply", ErrInvalid, i)
		}
	}
	return nil
}

// Category returns the category with the given id.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Vocabulary returns every distinct word used by category keywords and
// greeting phrases, in declaration order.
func (c *Catalog) Vocabulary() []string {
	seen := make(map[string]bool)
	var words []string
	add := func(phrase string) {
		for _, w := range text.Tokenize(text.Normalize(phrase)) {
			if !seen[w] {
				seen[w] = true
				words = append(words, w)
			}
		}
	}
	for _, cat := range c.Categories {
		for _, kw := range cat.Keywords {
			add(kw)
		}
	}
	for _, g := range c.Greetings {
		add(g.Phrase)
	}
	return words
}

// Marshal encodes the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling catalog: %w", err)
	}
	return data, nil
}
