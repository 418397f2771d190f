// Package classifier suggests a category for a short phrase by matching
// stemmed tokens against per-category keyword lists, falling back to a
// greeting table when no category matches.
package classifier

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/swibrow/intent/internal/catalog"
	"github.com/swibrow/intent/internal/logging"
	"github.com/swibrow/intent/internal/text"
)

// GreetingScope selects which tokens are checked against the greeting
// table when no category matched.
type GreetingScope string

const (
	// GreetingScopeAll checks every token in order; the first hit wins.
	GreetingScopeAll GreetingScope = "all"
	// GreetingScopeLast checks only the final token of the phrase.
	GreetingScopeLast GreetingScope = "last"
)

func ParseGreetingScope(s string) (GreetingScope, error) {
	switch GreetingScope(s) {
	case "", GreetingScopeAll:
		return GreetingScopeAll, nil
	case GreetingScopeLast:
		return GreetingScopeLast, nil
	default:
		return "", fmt.Errorf("unknown greeting scope %q (want %q or %q)", s, GreetingScopeAll, GreetingScopeLast)
	}
}

type category struct {
	id       string
	label    string
	keywords Keywords
}

// Classifier is immutable after New and safe for concurrent use as long as
// its Stemmer is.
type Classifier struct {
	matcher    *Matcher
	categories []category
	greetings  Keywords
	replies    []string
	scope      GreetingScope
	logger     log.FieldLogger
}

type Option func(*Classifier)

func WithLogger(l log.FieldLogger) Option {
	return func(c *Classifier) { c.logger = l }
}

func WithGreetingScope(s GreetingScope) Option {
	return func(c *Classifier) { c.scope = s }
}

// New compiles the catalog's keyword and greeting phrases with stemmer.
func New(cat *catalog.Catalog, stemmer text.Stemmer, opts ...Option) *Classifier {
	c := &Classifier{
		matcher: NewMatcher(stemmer, text.NewStopwordSet(cat.Stopwords)),
		scope:   GreetingScopeAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}

	for _, cc := range cat.Categories {
		c.categories = append(c.categories, category{
			id:       cc.ID,
			label:    cc.Label,
			keywords: Compile(stemmer, cc.Keywords),
		})
	}

	phrases := make([]string, 0, len(cat.Greetings))
	for _, g := range cat.Greetings {
		phrases = append(phrases, g.Phrase)
		c.replies = append(c.replies, g.Reply)
	}
	c.greetings = Compile(stemmer, phrases)
	return c
}

// ClassifyRaw normalizes free text before classifying it.
func (c *Classifier) ClassifyRaw(input string) Result {
	return c.Classify(text.Normalize(input))
}

// Classify expects a phrase that is already lowercase with question marks
// removed.
func (c *Classifier) Classify(phrase string) Result {
	tokens := text.Tokenize(phrase)

	var res Result
	seen := make(map[string]bool)
	for _, tok := range tokens {
		for _, cat := range c.categories {
			kw, ok := c.matcher.Match(tok, cat.keywords)
			if !ok {
				continue
			}
			c.logger.WithFields(log.Fields{
				"token":    tok,
				"keyword":  kw,
				"category": cat.id,
			}).Debug("keyword match")
			res.Matches = append(res.Matches, Match{Token: tok, Keyword: kw, Category: cat.id})
			if !seen[cat.label] {
				seen[cat.label] = true
				res.Labels = append(res.Labels, cat.label)
			}
		}
	}
	if len(res.Labels) > 0 {
		res.Kind = CategoryHits
		return res
	}

	if reply, ok := c.greet(tokens); ok {
		return Result{Kind: GreetingReply, Reply: reply}
	}
	return Result{Kind: NoMatch}
}

// Respond classifies free text and formats the answer.
func (c *Classifier) Respond(input string) string {
	return Format(c.ClassifyRaw(input))
}

func (c *Classifier) greet(tokens []string) (string, bool) {
	if len(tokens) == 0 {
		return "", false
	}
	if c.scope == GreetingScopeLast {
		tokens = tokens[len(tokens)-1:]
	}
	for _, tok := range tokens {
		if i := c.matcher.index(tok, c.greetings); i >= 0 {
			c.logger.WithFields(log.Fields{
				"token":    tok,
				"greeting": c.greetings[i].Phrase,
			}).Debug("greeting match")
			return c.replies[i], true
		}
	}
	return "", false
}

// Categories reports the category ids and labels in matching order.
func (c *Classifier) Categories() []catalog.Category {
	out := make([]catalog.Category, 0, len(c.categories))
	for _, cat := range c.categories {
		phrases := make([]string, 0, len(cat.keywords))
		for _, kw := range cat.keywords {
			phrases = append(phrases, kw.Phrase)
		}
		out = append(out, catalog.Category{ID: cat.id, Label: cat.label, Keywords: phrases})
	}
	return out
}
