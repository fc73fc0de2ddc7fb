package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bryanwahyu/askdata/internal/domain/answer"
	"github.com/bryanwahyu/askdata/internal/domain/queries"
)

func seed(t *testing.T, repo *QueryRepository, n int) {
	t.Helper()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		source := "fallback"
		if i%2 == 0 {
			source = "model"
		}
		q := &queries.Query{
			ID:         queries.QueryID(fmt.Sprintf("q-%03d", i)),
			TenantID:   "acme",
			DatasetID:  "ds-1",
			Question:   fmt.Sprintf("question %d", i),
			ResultType: answer.TypeScalar,
			Source:     source,
			AskedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Save(context.Background(), q); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := NewQueryRepository()
	seed(t, repo, 3)

	got, err := repo.Get(context.Background(), "acme", "q-001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Question != "question 1" {
		t.Fatalf("question: %q", got.Question)
	}

	if _, err := repo.Get(context.Background(), "acme", "nope"); err == nil {
		t.Fatal("expected not-found error")
	}
	if _, err := repo.Get(context.Background(), "other-tenant", "q-001"); err == nil {
		t.Fatal("tenants must be isolated")
	}
}

func TestSaveUpserts(t *testing.T) {
	repo := NewQueryRepository()
	seed(t, repo, 1)

	q := &queries.Query{ID: "q-000", TenantID: "acme", Question: "updated"}
	if err := repo.Save(context.Background(), q); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ := repo.Get(context.Background(), "acme", "q-000")
	if got.Question != "updated" {
		t.Fatalf("question: %q", got.Question)
	}
	list, _ := repo.Latest(context.Background(), "acme", 10)
	if len(list) != 1 {
		t.Fatalf("upsert duplicated the row: %d entries", len(list))
	}
}

func TestLatestOrdersNewestFirst(t *testing.T) {
	repo := NewQueryRepository()
	seed(t, repo, 5)

	list, err := repo.Latest(context.Background(), "acme", 3)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("limit: got %d", len(list))
	}
	if list[0].ID != "q-004" || list[2].ID != "q-002" {
		t.Fatalf("order: %v %v", list[0].ID, list[2].ID)
	}
}

func TestPaginateWithFilters(t *testing.T) {
	repo := NewQueryRepository()
	seed(t, repo, 10)

	page, err := repo.Paginate(context.Background(), "acme", 1, 4,
		map[string]interface{}{"source": "model"})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if page.Total != 5 {
		t.Fatalf("total: got %d want 5", page.Total)
	}
	if len(page.Data) != 4 {
		t.Fatalf("page size: got %d", len(page.Data))
	}
	if page.TotalPages != 2 {
		t.Fatalf("pages: got %d", page.TotalPages)
	}
	for _, q := range page.Data {
		if q.Source != "model" {
			t.Fatalf("filter leaked: %+v", q)
		}
	}

	page, _ = repo.Paginate(context.Background(), "acme", 1, 10,
		map[string]interface{}{"question": "QUESTION 3"})
	if page.Total != 1 {
		t.Fatalf("question filter: got %d", page.Total)
	}
}

func TestSummarySplitsSources(t *testing.T) {
	repo := NewQueryRepository()
	now := time.Now()
	for i, src := range []string{"model", "model", "fallback"} {
		repo.Save(context.Background(), &queries.Query{
			ID: queries.QueryID(fmt.Sprintf("s-%d", i)), TenantID: "acme",
			Source: src, AskedAt: now,
		})
	}
	// old entry outside the window
	repo.Save(context.Background(), &queries.Query{
		ID: "s-old", TenantID: "acme", Source: "model", AskedAt: now.AddDate(0, 0, -60),
	})

	total, model, fallback, err := repo.Summary(context.Background(), "acme", 30)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if total != 3 || model != 2 || fallback != 1 {
		t.Fatalf("got total=%d model=%d fallback=%d", total, model, fallback)
	}
}

func TestCursorPagination(t *testing.T) {
	repo := NewQueryRepository()
	seed(t, repo, 6)

	first, err := repo.Cursor(context.Background(), "acme", time.Time{}, "", 3)
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	if len(first) != 3 || first[0].ID != "q-005" {
		t.Fatalf("first page: %v", first)
	}
	last := first[len(first)-1]
	second, err := repo.Cursor(context.Background(), "acme", last.AskedAt, string(last.ID), 3)
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	if len(second) != 3 || second[0].ID != "q-002" {
		t.Fatalf("second page: %v", second)
	}
}
