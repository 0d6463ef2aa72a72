// Package archive keeps a SQLite index of past runs and the article files
// they produced. The scraping pipeline only inserts here; the index is
// read by the CLI listing commands, never by the pipeline itself.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusFailed  = "failed"
)

// ErrRunNotFound reports that no run exists with the given ID.
var ErrRunNotFound = errors.New("run not found")

// Store indexes runs and saved articles in SQLite.
type Store struct {
	db *sql.DB
}

// Run is one archive run.
type Run struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt *time.Time
	URLCount   int
	SavedCount int
	Status     string
	Error      *string
}

// SavedArticle is one article file written during a run.
type SavedArticle struct {
	ArticleID uuid.UUID
	RunID     uuid.UUID
	Title     string
	URL       string
	Path      string
	WrittenAt time.Time
}

// Open opens (or creates) the index database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the runs and articles tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		url_count INTEGER DEFAULT 0,
		saved_count INTEGER DEFAULT 0,
		status TEXT NOT NULL,
		error TEXT
	);
	CREATE TABLE IF NOT EXISTS articles (
		article_id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		path TEXT NOT NULL,
		written_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records the start of a run.
func (s *Store) BeginRun(runID uuid.UUID, startedAt time.Time) error {
	query := `INSERT INTO runs (run_id, started_at, status) VALUES (?, ?, ?)`

	_, err := s.db.Exec(query, runID.String(), formatTime(startedAt), StatusRunning)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// FinishRun records the outcome of a run. errText is empty for successful
// runs.
func (s *Store) FinishRun(runID uuid.UUID, finishedAt time.Time, urlCount, savedCount int, status, errText string) error {
	var errVal any
	if errText != "" {
		errVal = errText
	}

	query := `
		UPDATE runs
		SET finished_at = ?, url_count = ?, saved_count = ?, status = ?, error = ?
		WHERE run_id = ?
	`

	result, err := s.db.Exec(query, formatTime(finishedAt), urlCount, savedCount, status, errVal, runID.String())
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrRunNotFound
	}
	return nil
}

// RecordArticle records one saved article file.
func (s *Store) RecordArticle(runID uuid.UUID, title, url, path string, writtenAt time.Time) (*SavedArticle, error) {
	saved := &SavedArticle{
		ArticleID: uuid.New(),
		RunID:     runID,
		Title:     title,
		URL:       url,
		Path:      path,
		WrittenAt: writtenAt,
	}

	query := `
		INSERT INTO articles (article_id, run_id, title, url, path, written_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		saved.ArticleID.String(),
		saved.RunID.String(),
		saved.Title,
		saved.URL,
		saved.Path,
		formatTime(saved.WrittenAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}

	return saved, nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(runID uuid.UUID) (*Run, error) {
	query := `
		SELECT run_id, started_at, finished_at, url_count, saved_count, status, error
		FROM runs
		WHERE run_id = ?
	`

	run, err := scanRun(s.db.QueryRow(query, runID.String()))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit returns all runs.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, started_at, finished_at, url_count, saved_count, status, error
		FROM runs
		ORDER BY started_at DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// ListArticles returns the articles saved during a run, in write order.
func (s *Store) ListArticles(runID uuid.UUID) ([]SavedArticle, error) {
	query := `
		SELECT article_id, run_id, title, url, path, written_at
		FROM articles
		WHERE run_id = ?
		ORDER BY written_at ASC
	`

	rows, err := s.db.Query(query, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []SavedArticle
	for rows.Next() {
		var idStr, runIDStr, title, url, path, writtenAtStr string
		if err := rows.Scan(&idStr, &runIDStr, &title, &url, &path, &writtenAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}

		articleID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid article_id: %w", err)
		}
		parsedRunID, err := uuid.Parse(runIDStr)
		if err != nil {
			return nil, fmt.Errorf("invalid run_id: %w", err)
		}
		writtenAt, err := parseTime(writtenAtStr)
		if err != nil {
			return nil, fmt.Errorf("invalid written_at: %w", err)
		}

		articles = append(articles, SavedArticle{
			ArticleID: articleID,
			RunID:     parsedRunID,
			Title:     title,
			URL:       url,
			Path:      path,
			WrittenAt: writtenAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return articles, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var idStr, startedAtStr, status string
	var finishedAtStr, errText sql.NullString
	var urlCount, savedCount int

	if err := row.Scan(&idStr, &startedAtStr, &finishedAtStr, &urlCount, &savedCount, &status, &errText); err != nil {
		return nil, err
	}

	runID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid run_id: %w", err)
	}
	startedAt, err := parseTime(startedAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid started_at: %w", err)
	}

	run := &Run{
		RunID:      runID,
		StartedAt:  startedAt,
		URLCount:   urlCount,
		SavedCount: savedCount,
		Status:     status,
	}

	if finishedAtStr.Valid {
		finishedAt, err := parseTime(finishedAtStr.String)
		if err != nil {
			return nil, fmt.Errorf("invalid finished_at: %w", err)
		}
		run.FinishedAt = &finishedAt
	}
	if errText.Valid {
		run.Error = &errText.String
	}

	return run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
