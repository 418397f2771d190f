package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/swibrow/intent/internal/catalog"
	"github.com/swibrow/intent/internal/classifier"
	"github.com/swibrow/intent/internal/config"
	"github.com/swibrow/intent/internal/history"
	"github.com/swibrow/intent/internal/logging"
	"github.com/swibrow/intent/internal/text"
)

// app bundles what every command needs, built once from config and flags.
type app struct {
	cfg        *config.Config
	logger     *log.Logger
	catalog    *catalog.Catalog
	classifier *classifier.Classifier
	store      *history.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.LogLevel
	if flagVerbose {
		level = "debug"
	}
	logger, err := logging.New(level, os.Stderr)
	if err != nil {
		return nil, err
	}

	scopeName := cfg.Classifier.GreetingScope
	if flagGreetingScope != "" {
		scopeName = flagGreetingScope
	}
	scope, err := classifier.ParseGreetingScope(scopeName)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.Classifier.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	stemmer, err := text.NewSnowballStemmer(cfg.Classifier.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating stemmer: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		catalog: cat,
		classifier: classifier.New(cat, stemmer,
			classifier.WithLogger(logger),
			classifier.WithGreetingScope(scope),
		),
	}

	// History is optional; failing to open it only costs the record.
	if cfg.History.Enabled {
		stop := text.NewStopwordSet(cat.Stopwords)
		store, err := openHistoryStore(func(phrase string) []string {
			return text.Keywords(phrase, stop, stemmer)
		})
		if err != nil {
			logger.WithError(err).Warn("history disabled")
		} else {
			a.store = store
		}
	}

	return a, nil
}

func openHistoryStore(keywords history.KeywordFunc) (*history.Store, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("config directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}
	store, err := history.Open(dir, keywords)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return store, nil
}

// record saves a classified phrase when history is available.
func (a *app) record(ctx context.Context, sessionID, phrase string, res classifier.Result) {
	if a.store == nil {
		return
	}
	err := a.store.Save(ctx, history.Entry{
		Phrase:    strings.TrimSpace(text.Normalize(phrase)),
		Response:  classifier.Format(res),
		Kind:      res.Kind.String(),
		Labels:    res.Labels,
		SessionID: sessionID,
	})
	if err != nil {
		a.logger.WithError(err).Warn("recording classification")
	}
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}
