package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/swibrow/intent/internal/catalog"
	"github.com/swibrow/intent/internal/classifier"
	"github.com/swibrow/intent/internal/history"
)

func TestDisplayPlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	Display(&buf, classifier.Result{Kind: classifier.CategoryHits, Labels: []string{"Business Developer"}})

	assert.Equal(t, "You might be interested in Business Developer.\n", buf.String())
}

func TestDisplayQuiet(t *testing.T) {
	var buf bytes.Buffer
	DisplayQuiet(&buf, classifier.Result{Kind: classifier.GreetingReply, Reply: "Hello!"})

	assert.Equal(t, "Hello!\n", buf.String())
}

func TestDisplayNoMatch(t *testing.T) {
	var buf bytes.Buffer
	Display(&buf, classifier.Result{})

	assert.Equal(t, "Please try again.\n", buf.String())
}

func TestPromptPlain(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, "Is there anything else? ", Prompt(&buf, "Is there anything else? "))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestCategoryTable(t *testing.T) {
	var buf bytes.Buffer
	CategoryTable(&buf, []catalog.Category{
		{ID: "bd", Label: "Business Developer", Keywords: []string{"brand", "project"}},
	})

	out := buf.String()
	assert.Contains(t, out, "LABEL")
	assert.Contains(t, out, "Business Developer")
	assert.Contains(t, out, "brand, project")
}

func TestHistoryTable(t *testing.T) {
	var buf bytes.Buffer
	HistoryTable(&buf, []history.Entry{{
		ID:        7,
		Phrase:    "hi there",
		Response:  "Hi there!",
		UseCount:  2,
		CreatedAt: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
	}})

	out := buf.String()
	assert.Contains(t, out, "hi there")
	assert.Contains(t, out, "Hi there!")
	assert.Contains(t, out, "2026-10-17 09:30:00")
}
