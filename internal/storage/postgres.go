package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SUMMERxKx/nwHacks/internal"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS check_ins (
	user_id    TEXT        NOT NULL,
	date       TEXT        NOT NULL,
	ratings    JSONB       NOT NULL DEFAULT '{}',
	prompts    JSONB       NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	deleted_at TIMESTAMPTZ,
	PRIMARY KEY (user_id, date)
)`

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		logger.Errorf("failed to ensure check_ins schema: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- CheckInRepository ---
func (p *PostgresStorage) SaveCheckIn(ctx context.Context, c *internal.CheckIn) error {
	ratings, prompts, err := encodeCheckIn(c)
	if err != nil {
		return err
	}
	row := p.pool.QueryRow(ctx, `
		INSERT INTO check_ins (user_id, date, ratings, prompts, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULL)
		ON CONFLICT (user_id, date) DO UPDATE
		SET ratings = EXCLUDED.ratings, prompts = EXCLUDED.prompts,
		    updated_at = EXCLUDED.updated_at, deleted_at = NULL
		RETURNING created_at`,
		c.UserID, c.Date, ratings, prompts, c.CreatedAt, c.UpdatedAt)
	if err := row.Scan(&c.CreatedAt); err != nil {
		p.logger.Errorf("failed to upsert check-in: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetCheckIn(ctx context.Context, userID, date string) (*internal.CheckIn, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT user_id, date, ratings, prompts, created_at, updated_at
		FROM check_ins WHERE user_id = $1 AND date = $2 AND deleted_at IS NULL`, userID, date)
	c, err := scanCheckIn(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("storage: check-in %s: %w", date, internal.ErrNotFound)
	}
	if err != nil {
		p.logger.Errorf("failed to fetch check-in: %v", err)
		return nil, err
	}
	return c, nil
}

func (p *PostgresStorage) ListCheckIns(ctx context.Context, userID, start, end string) ([]internal.CheckIn, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT user_id, date, ratings, prompts, created_at, updated_at
		FROM check_ins
		WHERE user_id = $1 AND date >= $2 AND date <= $3 AND deleted_at IS NULL`, userID, start, end)
	if err != nil {
		p.logger.Errorf("failed to query check-ins: %v", err)
		return nil, err
	}
	defer rows.Close()

	checkIns := []internal.CheckIn{}
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			p.logger.Errorf("failed to scan check-in: %v", err)
			return nil, err
		}
		checkIns = append(checkIns, *c)
	}
	return checkIns, rows.Err()
}

func (p *PostgresStorage) DeleteCheckIn(ctx context.Context, userID, date string) error {
	now := time.Now().UTC()
	tag, err := p.pool.Exec(ctx, `
		UPDATE check_ins SET deleted_at = $3, updated_at = $3
		WHERE user_id = $1 AND date = $2 AND deleted_at IS NULL`, userID, date, now)
	if err != nil {
		p.logger.Errorf("failed to delete check-in: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: check-in %s: %w", date, internal.ErrNotFound)
	}
	return nil
}

// rowScanner is satisfied by pgx.Row, pgx.Rows and *sql.Row / *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckIn(row rowScanner) (*internal.CheckIn, error) {
	var (
		c                internal.CheckIn
		ratings, prompts []byte
	)
	if err := row.Scan(&c.UserID, &c.Date, &ratings, &prompts, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeCheckIn(&c, ratings, prompts); err != nil {
		return nil, err
	}
	return &c, nil
}

func encodeCheckIn(c *internal.CheckIn) (ratings, prompts []byte, err error) {
	if ratings, err = json.Marshal(c.Ratings); err != nil {
		return nil, nil, err
	}
	p := c.Prompts
	if p == nil {
		p = internal.Prompts{}
	}
	if prompts, err = json.Marshal(p); err != nil {
		return nil, nil, err
	}
	return ratings, prompts, nil
}

func decodeCheckIn(c *internal.CheckIn, ratings, prompts []byte) error {
	if len(ratings) > 0 {
		if err := json.Unmarshal(ratings, &c.Ratings); err != nil {
			return fmt.Errorf("storage: decode ratings: %w", err)
		}
	}
	normalized, err := internal.NormalizePrompts(prompts)
	if err != nil {
		return fmt.Errorf("storage: decode prompts: %w", err)
	}
	c.Prompts = normalized
	return nil
}

// --- Compile-time assertions ---
var _ CheckInRepository = (*PostgresStorage)(nil)
