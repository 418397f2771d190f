package classifier

import "strings"

// Kind says which branch of classification produced a Result.
type Kind int

const (
	NoMatch Kind = iota
	CategoryHits
	GreetingReply
)

func (k Kind) String() string {
	switch k {
	case CategoryHits:
		return "category"
	case GreetingReply:
		return "greeting"
	default:
		return "none"
	}
}

// Match records one token that hit a category keyword.
type Match struct {
	Token    string `json:"token"`
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
}

type Result struct {
	Kind Kind
	// Labels holds distinct category labels in first-seen order.
	Labels  []string
	Reply   string
	Matches []Match
}

const (
	suggestionPrefix = "You might be interested in "
	retryMessage     = "Please try again."
)

// Format renders a result as the sentence shown to the user.
func Format(r Result) string {
	switch r.Kind {
	case GreetingReply:
		return r.Reply
	case CategoryHits:
		if len(r.Labels) == 0 {
			return retryMessage
		}
		return suggestionPrefix + joinLabels(r.Labels) + "."
	default:
		return retryMessage
	}
}

// joinLabels produces "A", "A and B" or "A, B and C".
func joinLabels(labels []string) string {
	labels = dedupe(labels)
	if len(labels) == 1 {
		return labels[0]
	}
	last := len(labels) - 1
	return strings.Join(labels[:last], ", ") + " and " + labels[last]
}

func dedupe(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}
