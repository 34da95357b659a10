package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/repository/migrations"
)

// SQLiteStore keeps review runs in a local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (and migrates) the database named by dsn, e.g.
// "file:docreview.db" or ":memory:".
func OpenSQLite(ctx context.Context, dsn string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", dsn+sep+"_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if strings.Contains(dsn, ":memory:") {
		// every new connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(ctx, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("store.sqlite.open", "dsn", dsn)
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context, fsys fs.FS) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		version, err := strconv.Atoi(strings.SplitN(name, "_", 2)[0])
		if err != nil {
			return fmt.Errorf("parsing migration version %s: %w", name, err)
		}
		if version <= current {
			continue
		}
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
		s.logger.Debug("store.sqlite.migrate", "version", version, "file", name)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, run *ReviewRun) error {
	if run.UpdatedAt.IsZero() {
		run.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_runs (id, created_at, updated_at, name_a, name_b, status, high_count, error, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			updated_at = excluded.updated_at,
			name_a = excluded.name_a,
			name_b = excluded.name_b,
			status = excluded.status,
			high_count = excluded.high_count,
			error = excluded.error,
			result_json = excluded.result_json
	`,
		run.ID.String(), run.CreatedAt.UnixNano(), run.UpdatedAt.UnixNano(),
		run.NameA, run.NameB, string(run.Status), run.HighCount, run.Error, run.ResultJSON,
	)
	if err != nil {
		return fmt.Errorf("saving review run %s: %w", run.ID, err)
	}
	return nil
}

const sqliteColumns = "id, created_at, updated_at, name_a, name_b, status, high_count, error, result_json"

func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (*ReviewRun, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sqliteColumns+" FROM review_runs WHERE id = ?", id.String())
	run, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting review run %s: %w", id, err)
	}
	return run, nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]ReviewRun, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sqliteColumns+" FROM review_runs ORDER BY created_at DESC LIMIT ?", listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing review runs: %w", err)
	}
	defer rows.Close()

	var runs []ReviewRun
	for rows.Next() {
		run, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning review run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row scanner) (*ReviewRun, error) {
	var (
		run              ReviewRun
		id, status       string
		created, updated int64
	)
	err := row.Scan(&id, &created, &updated, &run.NameA, &run.NameB, &status, &run.HighCount, &run.Error, &run.ResultJSON)
	if err != nil {
		return nil, err
	}
	run.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing id %q: %w", id, err)
	}
	run.CreatedAt = time.Unix(0, created).UTC()
	run.UpdatedAt = time.Unix(0, updated).UTC()
	run.Status = constants.RunStatus(status)
	return &run, nil
}
