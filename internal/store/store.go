// Package store handles SQLite persistence of listening history.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuicast/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width UTC so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps SQLite access for listening sessions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS listens (
			id INTEGER PRIMARY KEY,
			module_id TEXT NOT NULL,
			title TEXT NOT NULL,
			audio_url TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			position_sec REAL NOT NULL,
			duration_sec REAL NOT NULL,
			listened_sec REAL NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_listens_ended_at ON listens(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_listens_module_id ON listens(module_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertListen stores a finished listening session.
func (s *Store) InsertListen(ctx context.Context, stats model.ListenStats) (int64, error) {
	completed := 0
	if stats.Completed {
		completed = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO listens (module_id, title, audio_url, started_at, ended_at, position_sec, duration_sec, listened_sec, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.ModuleID,
		stats.Title,
		stats.AudioURL,
		formatTime(stats.StartedAt),
		formatTime(stats.EndedAt),
		stats.Position,
		stats.Duration,
		stats.Listened,
		completed,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// LastPosition returns where the latest listen of a module stopped.
// Completed listens have no resume point.
func (s *Store) LastPosition(ctx context.Context, moduleID string) (float64, bool, error) {
	var position float64
	var completed int
	err := s.db.QueryRowContext(ctx,
		`SELECT position_sec, completed FROM listens
		 WHERE module_id = ?
		 ORDER BY ended_at DESC, id DESC
		 LIMIT 1`, moduleID).Scan(&position, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if completed != 0 || position <= 0 {
		return 0, false, nil
	}
	return position, true, nil
}

// ListListens returns listening sessions filtered by history config, oldest first.
func (s *Store) ListListens(ctx context.Context, cfg model.HistoryConfig) ([]model.ListenAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, module_id, title, ended_at, position_sec, duration_sec, listened_sec, completed
		FROM listens
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var listens []model.ListenAggregate
	for rows.Next() {
		var agg model.ListenAggregate
		var endedAt string
		var completed int
		if err := rows.Scan(&agg.ListenID, &agg.ModuleID, &agg.Title, &endedAt, &agg.Position, &agg.Duration, &agg.Listened, &completed); err != nil {
			return nil, err
		}
		ended, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ended_at %q: %w", endedAt, err)
		}
		agg.EndedAt = ended.Local()
		agg.Completed = completed != 0
		listens = append(listens, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(listens) > cfg.Last {
		listens = listens[len(listens)-cfg.Last:]
	}
	return listens, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
