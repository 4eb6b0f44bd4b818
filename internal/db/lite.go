package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/specsense/internal/types"
)

// liteTimeFormat is fixed width so created_at sorts as text
const liteTimeFormat = "2006-01-02T15:04:05.000000000Z"

const liteSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id           TEXT PRIMARY KEY,
	source       TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	content_hash TEXT NOT NULL DEFAULT '',
	report       TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_status ON reports (status);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at);
`

// LiteDB is a single-file SQLite report store for local use
type LiteDB struct {
	db *sql.DB
}

// OpenLite opens or creates a SQLite store at path and creates its schema.
// ":memory:" gives a private in-memory store.
func OpenLite(ctx context.Context, path string) (*LiteDB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// one connection keeps an in-memory database shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, liteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return &LiteDB{db: db}, nil
}

// Close closes the database
func (l *LiteDB) Close() {
	if l.db != nil {
		_ = l.db.Close()
	}
}

// SaveReport inserts a report, replacing any previous report with the same ID
func (l *LiteDB) SaveReport(ctx context.Context, report *types.Report) error {
	jsonBytes, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO reports (id, source, status, category, content_hash, report, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			source = excluded.source, status = excluded.status, category = excluded.category,
			content_hash = excluded.content_hash, report = excluded.report`,
		report.ID.String(), report.Source, string(report.Verdict.Status), report.Category(),
		report.Metadata.Hash, string(jsonBytes), report.CreatedAt.UTC().Format(liteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// GetReport retrieves a report by ID
func (l *LiteDB) GetReport(ctx context.Context, id uuid.UUID) (*types.Report, error) {
	var content string
	err := l.db.QueryRowContext(ctx,
		`SELECT report FROM reports WHERE id = ?`,
		id.String(),
	).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	return decodeReport([]byte(content))
}

// ListReports returns stored reports, newest first
func (l *LiteDB) ListReports(ctx context.Context, filter ListFilter) ([]*types.Report, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT report FROM reports
		 WHERE (? = '' OR status = ?)
		 ORDER BY created_at DESC, id
		 LIMIT ?`,
		string(filter.Status), string(filter.Status), filter.limit(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []*types.Report
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		report, err := decodeReport([]byte(content))
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
