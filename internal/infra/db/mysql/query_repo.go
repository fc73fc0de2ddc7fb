package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	domain "github.com/bryanwahyu/askdata/internal/domain/queries"
)

type QueryRepository struct {
	db *sql.DB
}

func NewQueryRepository(db *sql.DB) *QueryRepository {
	return &QueryRepository{db: db}
}

// Save insert/update Query record
func (r *QueryRepository) Save(ctx context.Context, q *domain.Query) error {
	const stmt = `
INSERT INTO data_queries
(id, tenant_id, dataset_id, question, result_type, explanation, source, asked_at, duration_ms)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 result_type=VALUES(result_type),
 explanation=VALUES(explanation),
 source=VALUES(source),
 duration_ms=VALUES(duration_ms);
`
	// Ensure non-nullable string fields have safe defaults
	tenant := stringOrDash(q.TenantID)
	source := stringOrDash(q.Source)
	asked := q.AskedAt
	if asked.IsZero() {
		asked = time.Now()
	}

	_, err := r.db.ExecContext(ctx, stmt,
		q.ID, tenant, q.DatasetID, q.Question, q.ResultType, q.Explanation, source,
		asked, q.DurationMS,
	)
	return err
}

// Get by ID + Tenant
func (r *QueryRepository) Get(ctx context.Context, tenant string, id domain.QueryID) (*domain.Query, error) {
	const stmt = `
SELECT id, tenant_id, dataset_id, question, result_type, explanation, source, asked_at, duration_ms
FROM data_queries
WHERE tenant_id=? AND id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, stmt, tenant, id)

	var q domain.Query
	if err := row.Scan(
		&q.ID, &q.TenantID, &q.DatasetID, &q.Question, &q.ResultType,
		&q.Explanation, &q.Source, &q.AskedAt, &q.DurationMS,
	); err != nil {
		return nil, err
	}
	return &q, nil
}

// Latest queries per tenant
func (r *QueryRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Query, error) {
	if limit <= 0 {
		limit = 20
	}
	const stmt = `
SELECT id, tenant_id, dataset_id, question, result_type, explanation, source, asked_at, duration_ms
FROM data_queries
WHERE tenant_id=? ORDER BY asked_at DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, stmt, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// Summary counts queries since N days, split by answer source
func (r *QueryRepository) Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	const stmt = `
SELECT COUNT(*) AS total_queries,
       COALESCE(SUM(source='model'),0)    AS model_answered,
       COALESCE(SUM(source='fallback'),0) AS fallback_answered
FROM data_queries
WHERE tenant_id=? AND asked_at >= ?;
`
	var total, model, fallback int
	if err := r.db.QueryRowContext(ctx, stmt, tenant, cut).Scan(&total, &model, &fallback); err != nil {
		return 0, 0, 0, err
	}
	return total, model, fallback, nil
}

// Paginate with offset + limit (classic pagination)
func (r *QueryRepository) Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	stmt := `
SELECT id, tenant_id, dataset_id, question, result_type, explanation, source, asked_at, duration_ms
FROM data_queries
WHERE tenant_id=?`
	args := []interface{}{tenant}
	stmt, args = applyFilters(stmt, args, filters)

	stmt += "\n ORDER BY asked_at DESC LIMIT ? OFFSET ?"
	args = append(args, pageSize, offset)
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying queries: %w", err)
	}
	defer rows.Close()

	out, err := collect(rows)
	if err != nil {
		return domain.PaginatedResult{}, err
	}

	total, err := r.Count(ctx, tenant, filters)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       out,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// Cursor-based pagination (after cursorTime, cursorID)
func (r *QueryRepository) Cursor(ctx context.Context, tenant string, cursorTime time.Time, cursorID string, pageSize int) ([]*domain.Query, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	const stmt = `
SELECT id, tenant_id, dataset_id, question, result_type, explanation, source, asked_at, duration_ms
FROM data_queries
WHERE tenant_id=?
  AND (asked_at < ? OR (asked_at = ? AND id < ?))
ORDER BY asked_at DESC, id DESC
LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, stmt, tenant, cursorTime, cursorTime, cursorID, pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// Count returns the total number of records matching the given filters
func (r *QueryRepository) Count(ctx context.Context, tenant string, filters map[string]interface{}) (int64, error) {
	stmt := "SELECT COUNT(*) FROM data_queries WHERE tenant_id = ?"
	args := []interface{}{tenant}
	stmt, args = applyFilters(stmt, args, filters)

	var count int64
	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func applyFilters(stmt string, args []interface{}, filters map[string]interface{}) (string, []interface{}) {
	for key, value := range filters {
		switch key {
		case "dataset_id":
			stmt += " AND dataset_id = ?"
			args = append(args, value)
		case "source":
			stmt += " AND source = ?"
			args = append(args, value)
		case "result_type":
			stmt += " AND result_type = ?"
			args = append(args, value)
		case "question":
			// LIKE search; escape pattern characters first
			stmt += " AND question LIKE ?"
			term, _ := value.(string)
			args = append(args, "%"+escapeLikePattern(term)+"%")
		}
	}
	return stmt, args
}

func collect(rows *sql.Rows) ([]*domain.Query, error) {
	var out []*domain.Query
	for rows.Next() {
		var q domain.Query
		if err := rows.Scan(
			&q.ID, &q.TenantID, &q.DatasetID, &q.Question, &q.ResultType,
			&q.Explanation, &q.Source, &q.AskedAt, &q.DurationMS,
		); err != nil {
			return nil, err
		}
		out = append(out, &q)
	}
	return out, rows.Err()
}
