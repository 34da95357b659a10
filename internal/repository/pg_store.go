package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/docreview/constants"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS review_runs (
    id          UUID PRIMARY KEY,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL,
    name_a      TEXT NOT NULL DEFAULT '',
    name_b      TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL,
    high_count  INTEGER NOT NULL DEFAULT 0,
    error       TEXT NOT NULL DEFAULT '',
    result_json JSONB
);
CREATE INDEX IF NOT EXISTS idx_review_runs_created_at ON review_runs (created_at DESC);
`

// PGStore keeps review runs in Postgres.
type PGStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres connects, pings and ensures the schema exists.
func OpenPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*PGStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := HealthCheck(ctx, pool, cfg.DialTimeout, logger); err != nil {
		Close(pool, logger)
		return nil, err
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		Close(pool, logger)
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &PGStore{pool: pool, logger: logger}, nil
}

func (s *PGStore) Save(ctx context.Context, run *ReviewRun) error {
	var result any
	if len(run.ResultJSON) > 0 {
		result = string(run.ResultJSON)
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO review_runs (id, created_at, updated_at, name_a, name_b, status, high_count, error, result_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)
		ON CONFLICT (id) DO UPDATE SET
			updated_at = EXCLUDED.updated_at,
			name_a = EXCLUDED.name_a,
			name_b = EXCLUDED.name_b,
			status = EXCLUDED.status,
			high_count = EXCLUDED.high_count,
			error = EXCLUDED.error,
			result_json = EXCLUDED.result_json
	`, run.ID, run.CreatedAt, run.UpdatedAt, run.NameA, run.NameB, string(run.Status), run.HighCount, run.Error, result)
	if err != nil {
		return fmt.Errorf("saving review run %s: %w", run.ID, err)
	}
	return nil
}

const pgColumns = "id, created_at, updated_at, name_a, name_b, status, high_count, error, COALESCE(result_json::text, '')"

func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (*ReviewRun, error) {
	run, err := scanPG(s.pool.QueryRow(ctx, "SELECT "+pgColumns+" FROM review_runs WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting review run %s: %w", id, err)
	}
	return run, nil
}

func (s *PGStore) List(ctx context.Context, limit int) ([]ReviewRun, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+pgColumns+" FROM review_runs ORDER BY created_at DESC LIMIT $1", listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing review runs: %w", err)
	}
	defer rows.Close()

	var runs []ReviewRun
	for rows.Next() {
		run, err := scanPG(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning review run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (s *PGStore) Close() error {
	Close(s.pool, s.logger)
	return nil
}

func scanPG(row pgx.Row) (*ReviewRun, error) {
	var (
		run    ReviewRun
		status string
		result string
	)
	if err := row.Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt, &run.NameA, &run.NameB, &status, &run.HighCount, &run.Error, &result); err != nil {
		return nil, err
	}
	run.Status = constants.RunStatus(status)
	if result != "" {
		run.ResultJSON = []byte(result)
	}
	return &run, nil
}
