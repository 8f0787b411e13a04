// Package db provides the PostgreSQL run ledger for briefing runs.
package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Schema returns the DDL applied by Migrate
func Schema() string {
	return schemaSQL
}

// Migrate creates the ledger tables if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// CreateBriefRun inserts a running record for variant and returns its ID
func (db *DB) CreateBriefRun(ctx context.Context, variant string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO brief_runs (variant, status)
		 VALUES ($1, $2)
		 RETURNING id`,
		variant, StatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteBriefRun records the outcome of a run
func (db *DB) CompleteBriefRun(ctx context.Context, runID uuid.UUID, outcome RunOutcome) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE brief_runs
		 SET status = $1, collected = $2, selected = $3, degraded = $4,
		     error = $5, archive_uri = $6, completed_at = NOW()
		 WHERE id = $7`,
		outcome.Status, outcome.Collected, outcome.Selected, outcome.Degraded,
		nullIfEmpty(outcome.Error), nullIfEmpty(outcome.ArchiveURI), runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

// SaveBriefArtifact stores a text artifact for a run, replacing any earlier one of the same kind
func (db *DB) SaveBriefArtifact(ctx context.Context, runID uuid.UUID, kind, content string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO brief_artifacts (run_id, kind, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, kind) DO UPDATE SET content = $3, created_at = NOW()`,
		runID, kind, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", kind, err)
	}
	return nil
}

// GetBriefArtifact retrieves an artifact by run ID and kind
func (db *DB) GetBriefArtifact(ctx context.Context, runID uuid.UUID, kind string) (*BriefArtifact, error) {
	var a BriefArtifact
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_id, kind, content, created_at
		 FROM brief_artifacts WHERE run_id = $1 AND kind = $2`,
		runID, kind,
	).Scan(&a.ID, &a.RunID, &a.Kind, &a.Content, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", kind, err)
	}
	return &a, nil
}

const runColumns = `id, variant, status, collected, selected, degraded, error, archive_uri, created_at, completed_at`

func scanRun(row pgx.Row) (*BriefRun, error) {
	var r BriefRun
	if err := row.Scan(&r.ID, &r.Variant, &r.Status, &r.Collected, &r.Selected, &r.Degraded,
		&r.Error, &r.ArchiveURI, &r.CreatedAt, &r.CompletedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetBriefRun retrieves a run by ID
func (db *DB) GetBriefRun(ctx context.Context, runID uuid.UUID) (*BriefRun, error) {
	run, err := scanRun(db.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM brief_runs WHERE id = $1`, runID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListBriefRuns retrieves recent runs, newest first
func (db *DB) ListBriefRuns(ctx context.Context, filters RunFilters) ([]BriefRun, error) {
	query, args := buildListQuery(filters)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []BriefRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func buildListQuery(filters RunFilters) (string, []any) {
	if filters.Limit <= 0 {
		filters.Limit = DefaultListLimit
	}

	query := `SELECT ` + runColumns + ` FROM brief_runs WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Variant != "" {
		query += fmt.Sprintf(" AND variant = $%d", argNum)
		args = append(args, filters.Variant)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)
	return query, args
}

// DeleteBriefRun deletes a run and all its artifacts (via cascade)
func (db *DB) DeleteBriefRun(ctx context.Context, runID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM brief_runs WHERE id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

// nullIfEmpty maps "" to SQL NULL
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
