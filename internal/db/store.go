// Package db provides report storage backed by PostgreSQL or SQLite.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/specsense/internal/types"
)

// DefaultListLimit caps ListReports when the filter has no limit
const DefaultListLimit = 100

// Store persists analyzed reports
type Store interface {
	SaveReport(ctx context.Context, report *types.Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*types.Report, error)
	ListReports(ctx context.Context, filter ListFilter) ([]*types.Report, error)
	Close()
}

// ListFilter narrows ListReports. Results are newest first.
type ListFilter struct {
	Status types.Status
	Limit  int
}

func (f ListFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

// NotFoundError is returned when no report has the requested ID
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("report not found: %s", e.ID)
}

// Open connects to the store named by databaseURL.
// postgres:// and postgresql:// select PostgreSQL; sqlite:// and file: select SQLite.
func Open(ctx context.Context, databaseURL string, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		db, err := Connect(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.Debug("connected to postgres store")
		return db, nil
	case strings.HasPrefix(databaseURL, "sqlite://"), strings.HasPrefix(databaseURL, "file:"):
		path := strings.TrimPrefix(strings.TrimPrefix(databaseURL, "sqlite://"), "file:")
		lite, err := OpenLite(ctx, path)
		if err != nil {
			return nil, err
		}
		logger.Debug("opened sqlite store", zap.String("path", path))
		return lite, nil
	default:
		return nil, fmt.Errorf("unsupported database URL scheme: %q", databaseURL)
	}
}
