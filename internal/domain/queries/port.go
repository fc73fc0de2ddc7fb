package queries

import (
	"context"
	"time"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, q *Query) error
	Get(ctx context.Context, tenant string, id QueryID) (*Query, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Query, error)

	// Summary: total queries plus model/fallback split since N days
	Summary(ctx context.Context, tenant string, sinceDays int) (total, model, fallback int, err error)

	Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (PaginatedResult, error)
	Cursor(ctx context.Context, tenant string, cursorTime time.Time, cursorID string, pageSize int) ([]*Query, error)
}
