package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bryanwahyu/askdata/internal/domain/queries"
)

// QueryRepository keeps queries in memory. Used when no database is
// configured, and in tests.
type QueryRepository struct {
	mu   sync.RWMutex
	data map[string][]*queries.Query // tenant -> history
}

func NewQueryRepository() *QueryRepository {
	return &QueryRepository{data: make(map[string][]*queries.Query)}
}

func (r *QueryRepository) Save(ctx context.Context, q *queries.Query) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, old := range r.data[q.TenantID] {
		if old.ID == q.ID {
			cp := *q
			r.data[q.TenantID][i] = &cp
			return nil
		}
	}
	cp := *q
	r.data[q.TenantID] = append(r.data[q.TenantID], &cp)
	return nil
}

func (r *QueryRepository) Get(ctx context.Context, tenant string, id queries.QueryID) (*queries.Query, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, q := range r.data[tenant] {
		if q.ID == id {
			cp := *q
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("query %s: %w", id, sql.ErrNoRows)
}

func (r *QueryRepository) Latest(ctx context.Context, tenant string, limit int) ([]*queries.Query, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.sorted(tenant)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *QueryRepository) Summary(ctx context.Context, tenant string, sinceDays int) (total, model, fallback int, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cutoff := time.Now().AddDate(0, 0, -sinceDays)
	for _, q := range r.data[tenant] {
		if q.AskedAt.Before(cutoff) {
			continue
		}
		total++
		if q.Source == "model" {
			model++
		} else {
			fallback++
		}
	}
	return total, model, fallback, nil
}

func (r *QueryRepository) Paginate(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (queries.PaginatedResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*queries.Query
	for _, q := range r.sorted(tenant) {
		if matches(q, filters) {
			matched = append(matched, q)
		}
	}

	total := int64(len(matched))
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return queries.PaginatedResult{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (r *QueryRepository) Cursor(ctx context.Context, tenant string, cursorTime time.Time, cursorID string, pageSize int) ([]*queries.Query, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*queries.Query
	for _, q := range r.sorted(tenant) {
		if !cursorTime.IsZero() {
			if q.AskedAt.After(cursorTime) {
				continue
			}
			if q.AskedAt.Equal(cursorTime) && string(q.ID) >= cursorID {
				continue
			}
		}
		out = append(out, q)
		if len(out) == pageSize {
			break
		}
	}
	return out, nil
}

// sorted returns copies ordered newest first, ties broken by id desc.
func (r *QueryRepository) sorted(tenant string) []*queries.Query {
	out := make([]*queries.Query, 0, len(r.data[tenant]))
	for _, q := range r.data[tenant] {
		cp := *q
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AskedAt.Equal(out[j].AskedAt) {
			return out[i].AskedAt.After(out[j].AskedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func matches(q *queries.Query, filters map[string]interface{}) bool {
	for key, val := range filters {
		switch key {
		case "dataset_id":
			if s, ok := val.(string); ok && s != "" && q.DatasetID != s {
				return false
			}
		case "source":
			if s, ok := val.(string); ok && s != "" && q.Source != s {
				return false
			}
		case "result_type":
			if s, ok := val.(string); ok && s != "" && string(q.ResultType) != s {
				return false
			}
		case "question":
			if s, ok := val.(string); ok && s != "" &&
				!strings.Contains(strings.ToLower(q.Question), strings.ToLower(s)) {
				return false
			}
		}
	}
	return true
}
