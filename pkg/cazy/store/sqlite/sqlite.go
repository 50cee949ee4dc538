package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ids"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ingest"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/score"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/store"
)

// Fixed-width UTC timestamps sort lexically in time order
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	input_path TEXT,
	model_path TEXT
);

CREATE TABLE IF NOT EXISTS articles (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	id TEXT NOT NULL,
	title TEXT,
	only_abstract INTEGER NOT NULL DEFAULT 0,
	text TEXT,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	id TEXT NOT NULL,
	pmcid TEXT NOT NULL,
	confidence TEXT NOT NULL,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS translations (
	id TEXT NOT NULL,
	target TEXT NOT NULL,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY(id, target)
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run with its articles and result rows
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run id is required: %w", internalerr.ErrInvalidInput)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO runs (id, created_at, input_path, model_path)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	input_path=excluded.input_path,
	model_path=excluded.model_path;
`
	if _, err := tx.ExecContext(ctx, stmt,
		r.ID,
		r.CreatedAt.UTC().Format(timeLayout),
		r.InputPath,
		r.ModelPath,
	); err != nil {
		return err
	}

	if err := replaceArticles(ctx, tx, r.ID, r.Articles); err != nil {
		return err
	}
	if err := replaceResults(ctx, tx, r.ID, r.Results); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceArticles(ctx context.Context, tx *sql.Tx, runID string, articles []ingest.Article) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE run_id=?`, runID); err != nil {
		return err
	}
	if len(articles) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO articles (run_id, position, id, title, only_abstract, text) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, a := range articles {
		if _, err := stmt.ExecContext(ctx, runID, i, a.ID, a.Title, boolToInt(a.OnlyAbstract), a.Text); err != nil {
			return err
		}
	}
	return nil
}

func replaceResults(ctx context.Context, tx *sql.Tx, runID string, rows ids.ResultTable) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE run_id=?`, runID); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results (run_id, position, id, pmcid, confidence) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, runID, i, row.ID, row.PMCID, row.Confidence.String()); err != nil {
			return err
		}
	}
	return nil
}

// GetRun retrieves a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	return s.loadRun(ctx, id)
}

// LatestRun retrieves the most recently created run
func (s *sqliteStore) LatestRun(ctx context.Context) (store.Run, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}

	run, err := s.loadRun(ctx, id)
	if err != nil {
		return store.Run{}, false, err
	}
	return run, true, nil
}

// ListRuns returns run summaries, newest first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.created_at, r.input_path, r.model_path,
	(SELECT COUNT(*) FROM articles a WHERE a.run_id = r.id),
	(SELECT COUNT(*) FROM results x WHERE x.run_id = r.id),
	(SELECT COUNT(*) FROM results x WHERE x.run_id = r.id AND x.confidence != ?)
FROM runs r
ORDER BY r.created_at DESC, r.id DESC
LIMIT ?;
`, score.NoneLabel, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.RunSummary
	for rows.Next() {
		var (
			sum     store.RunSummary
			created string
		)
		if err := rows.Scan(&sum.ID, &created, &sum.InputPath, &sum.ModelPath, &sum.Articles, &sum.Rows, &sum.Scored); err != nil {
			return nil, err
		}
		sum.CreatedAt = parseTime(created)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// GetTranslation returns a cached translation; ok is false when absent
func (s *sqliteStore) GetTranslation(ctx context.Context, id, target string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM translations WHERE id = ? AND target = ?`, id, target).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// PutTranslation caches a translation; an empty value records a miss
func (s *sqliteStore) PutTranslation(ctx context.Context, id, target, value string) error {
	const stmt = `
INSERT INTO translations (id, target, value, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(id, target) DO UPDATE SET
	value=excluded.value,
	updated_at=excluded.updated_at;
`
	_, err := s.db.ExecContext(ctx, stmt, id, target, value, time.Now().UTC().Format(timeLayout))
	return err
}

func (s *sqliteStore) loadRun(ctx context.Context, id string) (store.Run, error) {
	var (
		run     store.Run
		created string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, created_at, input_path, model_path
FROM runs
WHERE id = ?;
`, id).Scan(&run.ID, &created, &run.InputPath, &run.ModelPath)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}
	run.CreatedAt = parseTime(created)

	run.Articles, err = s.loadArticles(ctx, id)
	if err != nil {
		return store.Run{}, err
	}
	run.Results, err = s.loadResults(ctx, id)
	if err != nil {
		return store.Run{}, err
	}
	return run, nil
}

func (s *sqliteStore) loadArticles(ctx context.Context, runID string) ([]ingest.Article, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, only_abstract, text FROM articles WHERE run_id=? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ingest.Article
	for rows.Next() {
		var (
			a        ingest.Article
			abstract int
		)
		if err := rows.Scan(&a.ID, &a.Title, &abstract, &a.Text); err != nil {
			return nil, err
		}
		a.OnlyAbstract = abstract != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *sqliteStore) loadResults(ctx context.Context, runID string) (ids.ResultTable, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, pmcid, confidence FROM results WHERE run_id=? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out ids.ResultTable
	for rows.Next() {
		var (
			row  ids.ResultRow
			conf string
		)
		if err := rows.Scan(&row.ID, &row.PMCID, &conf); err != nil {
			return nil, err
		}
		row.Confidence, err = score.ParseConfidence(conf)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
