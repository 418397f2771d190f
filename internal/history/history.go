// Package history records classified phrases in a local SQLite database
// and searches them by their stemmed keywords.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS classifications (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    phrase      TEXT    NOT NULL UNIQUE,
    response    TEXT    NOT NULL,
    kind        TEXT    NOT NULL,
    labels      TEXT    NOT NULL DEFAULT '',
    tags        TEXT    NOT NULL DEFAULT '',
    session_id  TEXT    NOT NULL DEFAULT '',
    created_at  TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
    use_count   INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_classifications_created_at ON classifications(created_at);

CREATE VIRTUAL TABLE IF NOT EXISTS classifications_fts USING fts5(
    tags,
    content='classifications',
    content_rowid='id'
);

CREATE TRIGGER IF NOT EXISTS classifications_ai AFTER INSERT ON classifications BEGIN
    INSERT INTO classifications_fts(rowid, tags) VALUES (new.id, new.tags);
END;
CREATE TRIGGER IF NOT EXISTS classifications_ad AFTER DELETE ON classifications BEGIN
    INSERT INTO classifications_fts(classifications_fts, rowid, tags) VALUES('delete', old.id, old.tags);
END;
CREATE TRIGGER IF NOT EXISTS classifications_au AFTER UPDATE ON classifications BEGIN
    INSERT INTO classifications_fts(classifications_fts, rowid, tags) VALUES('delete', old.id, old.tags);
    INSERT INTO classifications_fts(rowid, tags) VALUES (new.id, new.tags);
END;
`

// labelSep separates labels in the labels column. Labels may contain
// commas and spaces, so neither works as a separator.
const labelSep = "|"

// KeywordFunc turns a phrase into the search keywords it is indexed by.
type KeywordFunc func(phrase string) []string

type Entry struct {
	ID        int64
	Phrase    string
	Response  string
	Kind      string
	Labels    []string
	Tags      string
	SessionID string
	CreatedAt time.Time
	UseCount  int
}

type Store struct {
	db       *sql.DB
	keywords KeywordFunc
}

func Open(dir string, keywords KeywordFunc) (*Store, error) {
	dbPath := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, keywords: keywords}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save records a classified phrase. Saving the same phrase again bumps its
// use count and refreshes the stored response.
func (s *Store) Save(ctx context.Context, e Entry) error {
	tags := strings.Join(s.keywords(e.Phrase), " ")
	labels := strings.Join(e.Labels, labelSep)

	result, err := s.db.ExecContext(ctx,
		`UPDATE classifications
		 SET use_count = use_count + 1, response = ?, kind = ?, labels = ?, tags = ?, session_id = ?
		 WHERE phrase = ?`,
		e.Response, e.Kind, labels, tags, e.SessionID, e.Phrase,
	)
	if err != nil {
		return fmt.Errorf("updating classification: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if rows > 0 {
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO classifications (phrase, response, kind, labels, tags, session_id) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Phrase, e.Response, e.Kind, labels, tags, e.SessionID,
	)
	if err != nil {
		return fmt.Errorf("inserting classification: %w", err)
	}

	return nil
}

// Search finds past phrases sharing at least one keyword with query, best
// matches first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	keywords := s.keywords(query)
	if len(keywords) == 0 {
		return nil, nil
	}

	terms := make([]string, len(keywords))
	for i, kw := range keywords {
		terms[i] = `"` + strings.ReplaceAll(kw, `"`, `""`) + `"`
	}
	ftsQuery := strings.Join(terms, " OR ")

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.phrase, c.response, c.kind, c.labels, c.tags, c.session_id, c.created_at, c.use_count
		 FROM classifications_fts
		 JOIN classifications c ON c.id = classifications_fts.rowid
		 WHERE classifications_fts.tags MATCH ?
		 ORDER BY bm25(classifications_fts) ASC, c.use_count DESC, c.created_at DESC
		 LIMIT ?`,
		ftsQuery, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching classifications: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	return scanEntries(rows)
}

func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, phrase, response, kind, labels, tags, session_id, created_at, use_count
		 FROM classifications
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing classifications: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	return scanEntries(rows)
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM classifications")
	if err != nil {
		return fmt.Errorf("clearing classifications: %w", err)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var labels, createdAt string
		if err := rows.Scan(&e.ID, &e.Phrase, &e.Response, &e.Kind, &labels, &e.Tags, &e.SessionID, &createdAt, &e.UseCount); err != nil {
			return nil, fmt.Errorf("scanning classification: %w", err)
		}
		if labels != "" {
			e.Labels = strings.Split(labels, labelSep)
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			t, _ = time.Parse("2006-01-02T15:04:05Z", createdAt)
		}
		e.CreatedAt = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
