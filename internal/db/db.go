package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/specsense/internal/types"
)

//go:embed migrations/001_reports.sql
var reportsSchema string

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

// Migrate creates the reports table if it does not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, reportsSchema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// SaveReport inserts a report, replacing any previous report with the same ID
func (db *DB) SaveReport(ctx context.Context, report *types.Report) error {
	jsonBytes, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO reports (id, source, status, category, content_hash, report, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
			source = $2, status = $3, category = $4, content_hash = $5, report = $6`,
		report.ID, report.Source, string(report.Verdict.Status), report.Category(),
		report.Metadata.Hash, jsonBytes, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// GetReport retrieves a report by ID
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*types.Report, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT report FROM reports WHERE id = $1`,
		id,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	return decodeReport(content)
}

// ListReports returns stored reports, newest first
func (db *DB) ListReports(ctx context.Context, filter ListFilter) ([]*types.Report, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT report FROM reports
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC, id
		 LIMIT $2`,
		string(filter.Status), filter.limit(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*types.Report
	for rows.Next() {
		var content []byte
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		report, err := decodeReport(content)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return reports, nil
}

func decodeReport(content []byte) (*types.Report, error) {
	var report types.Report
	if err := json.Unmarshal(content, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}
