package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/SUMMERxKx/nwHacks/internal"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS check_ins (
	user_id    TEXT NOT NULL,
	date       TEXT NOT NULL,
	ratings    TEXT NOT NULL DEFAULT '{}',
	prompts    TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	deleted_at TEXT,
	PRIMARY KEY (user_id, date)
)`

// SQLiteStorage keeps check-ins in a single SQLite file. Timestamps are
// stored as RFC 3339 text.
type SQLiteStorage struct {
	db     *sql.DB
	logger internal.Logger
}

func NewSQLiteStorage(ctx context.Context, path string, logger internal.Logger) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		logger.Errorf("failed to open sqlite: %v", err)
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		logger.Errorf("failed to ensure check_ins schema: %v", err)
		return nil, err
	}
	return &SQLiteStorage{db: db, logger: logger}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- CheckInRepository ---
func (s *SQLiteStorage) SaveCheckIn(ctx context.Context, c *internal.CheckIn) error {
	ratings, prompts, err := encodeCheckIn(c)
	if err != nil {
		return err
	}
	var createdAt string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO check_ins (user_id, date, ratings, prompts, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL)
		ON CONFLICT (user_id, date) DO UPDATE
		SET ratings = excluded.ratings, prompts = excluded.prompts,
		    updated_at = excluded.updated_at, deleted_at = NULL
		RETURNING created_at`,
		c.UserID, c.Date, string(ratings), string(prompts), formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	).Scan(&createdAt)
	if err != nil {
		s.logger.Errorf("failed to upsert check-in: %v", err)
		return err
	}
	c.CreatedAt = parseTime(createdAt)
	return nil
}

func (s *SQLiteStorage) GetCheckIn(ctx context.Context, userID, date string) (*internal.CheckIn, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, date, ratings, prompts, created_at, updated_at
		FROM check_ins WHERE user_id = ? AND date = ? AND deleted_at IS NULL`, userID, date)
	c, err := scanSQLiteCheckIn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: check-in %s: %w", date, internal.ErrNotFound)
	}
	if err != nil {
		s.logger.Errorf("failed to fetch check-in: %v", err)
		return nil, err
	}
	return c, nil
}

func (s *SQLiteStorage) ListCheckIns(ctx context.Context, userID, start, end string) ([]internal.CheckIn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, date, ratings, prompts, created_at, updated_at
		FROM check_ins
		WHERE user_id = ? AND date >= ? AND date <= ? AND deleted_at IS NULL`, userID, start, end)
	if err != nil {
		s.logger.Errorf("failed to query check-ins: %v", err)
		return nil, err
	}
	defer rows.Close()

	checkIns := []internal.CheckIn{}
	for rows.Next() {
		c, err := scanSQLiteCheckIn(rows)
		if err != nil {
			s.logger.Errorf("failed to scan check-in: %v", err)
			return nil, err
		}
		checkIns = append(checkIns, *c)
	}
	return checkIns, rows.Err()
}

func (s *SQLiteStorage) DeleteCheckIn(ctx context.Context, userID, date string) error {
	now := formatTime(time.Now())
	res, err := s.db.ExecContext(ctx, `
		UPDATE check_ins SET deleted_at = ?, updated_at = ?
		WHERE user_id = ? AND date = ? AND deleted_at IS NULL`, now, now, userID, date)
	if err != nil {
		s.logger.Errorf("failed to delete check-in: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("storage: check-in %s: %w", date, internal.ErrNotFound)
	}
	return nil
}

func scanSQLiteCheckIn(row rowScanner) (*internal.CheckIn, error) {
	var (
		c                    internal.CheckIn
		ratings, prompts     string
		createdAt, updatedAt string
	)
	if err := row.Scan(&c.UserID, &c.Date, &ratings, &prompts, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := decodeCheckIn(&c, []byte(ratings), []byte(prompts)); err != nil {
		return nil, err
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// --- Compile-time assertions ---
var _ CheckInRepository = (*SQLiteStorage)(nil)
