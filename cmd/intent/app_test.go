package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swibrow/intent/internal/classifier"
	"github.com/swibrow/intent/internal/config"
)

func setupTestDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	config.ConfigDirFunc = func() (string, error) { return dir, nil }
	t.Setenv("INTENT_CATALOG", "")
	t.Setenv("INTENT_LOG_LEVEL", "")
	t.Cleanup(func() {
		config.ConfigDirFunc = nil
		flagGreetingScope = ""
		flagVerbose = false
	})
	return dir
}

func TestNewAppDefaults(t *testing.T) {
	dir := setupTestDir(t)

	a, err := newApp()
	require.NoError(t, err)
	defer a.close()

	require.NotNil(t, a.store)
	assert.Equal(t, "Hi there!", a.classifier.Respond("hi there"))

	_, err = os.Stat(filepath.Join(dir, "history.db"))
	assert.NoError(t, err)
}

func TestAppRecord(t *testing.T) {
	setupTestDir(t)

	a, err := newApp()
	require.NoError(t, err)
	defer a.close()

	ctx := context.Background()
	res := a.classifier.ClassifyRaw("I want a career in AI?")
	a.record(ctx, "session-1", "I want a career in AI?", res)

	entries, err := a.store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "i want a career in ai", entries[0].Phrase)
	assert.Equal(t, "You might be interested in AI Business Consultant.", entries[0].Response)
	assert.Equal(t, classifier.CategoryHits.String(), entries[0].Kind)
	assert.Equal(t, "session-1", entries[0].SessionID)
}

func TestNewAppHistoryDisabled(t *testing.T) {
	setupTestDir(t)
	cfg := config.DefaultConfig()
	cfg.History.Enabled = false
	require.NoError(t, config.Save(cfg))

	a, err := newApp()
	require.NoError(t, err)
	defer a.close()

	assert.Nil(t, a.store)
	// Recording without a store is a no-op.
	a.record(context.Background(), "", "hello", a.classifier.ClassifyRaw("hello"))
}

func TestNewAppGreetingScopeFlag(t *testing.T) {
	setupTestDir(t)
	flagGreetingScope = "last"

	a, err := newApp()
	require.NoError(t, err)
	defer a.close()

	assert.Equal(t, "Please try again.", a.classifier.Respond("hi there"))
}

func TestNewAppBadGreetingScope(t *testing.T) {
	setupTestDir(t)
	flagGreetingScope = "middle"

	_, err := newApp()
	assert.Error(t, err)
}

func TestNewAppCustomCatalog(t *testing.T) {
	dir := setupTestDir(t)
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - id: ops
    label: Site Reliability
    keywords: [deploy]
`), 0o600))
	t.Setenv("INTENT_CATALOG", path)

	a, err := newApp()
	require.NoError(t, err)
	defer a.close()

	assert.Equal(t, "You might be interested in Site Reliability.", a.classifier.Respond("deploying"))
}
