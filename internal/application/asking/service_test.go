package asking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bryanwahyu/askdata/internal/application"
	appdatasets "github.com/bryanwahyu/askdata/internal/application/datasets"
	"github.com/bryanwahyu/askdata/internal/application/orchestrate"
	domaindatasets "github.com/bryanwahyu/askdata/internal/domain/datasets"
	"github.com/bryanwahyu/askdata/internal/infra/csvload"
	"github.com/bryanwahyu/askdata/internal/infra/db/memory"
)

const peopleCSV = "name,age,salary\nani,25,4000\nbudi,32,5200\ncitra,41,7100\n"

var testClock = application.FixedClock{T: time.Now().Add(-time.Hour).Truncate(time.Second)}

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	ds := appdatasets.NewService(domaindatasets.LoaderFunc(csvload.Load), nil, testClock)
	svc := NewService(ds, orchestrate.New(nil), memory.NewQueryRepository(), testClock)

	meta, err := ds.Upload(context.Background(), appdatasets.UploadCommand{
		TenantID: "acme", Name: "people.csv", Data: []byte(peopleCSV),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return svc, string(meta.ID)
}

func TestAskRecordsHistory(t *testing.T) {
	svc, id := newTestService(t)

	res, err := svc.Ask(context.Background(), AskCommand{
		TenantID: "acme", DatasetID: id, Question: "how many rows?",
	})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if res.Source != "fallback" {
		t.Fatalf("source: %q", res.Source)
	}
	if n, ok := res.ResultData.(int); !ok || n != 3 {
		t.Fatalf("result data: %#v", res.ResultData)
	}

	saved, err := svc.Repo.Get(context.Background(), "acme", "")
	if err == nil {
		t.Fatalf("unexpected match for empty id: %+v", saved)
	}
	latest, err := svc.Latest(context.Background(), "acme", 0)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(latest) != 1 || latest[0].Question != "how many rows?" {
		t.Fatalf("history: %+v", latest)
	}
	if string(latest[0].ID) != res.ID {
		t.Fatalf("ids diverge: %s vs %s", latest[0].ID, res.ID)
	}
	if !latest[0].AskedAt.Equal(testClock.T) {
		t.Fatalf("asked_at: %v", latest[0].AskedAt)
	}
	// both ends of the duration go through the injected clock
	if res.DurationMS != 0 {
		t.Fatalf("duration under a fixed clock: got %d", res.DurationMS)
	}
}

func TestAskUnknownDataset(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Ask(context.Background(), AskCommand{
		TenantID: "acme", DatasetID: "missing", Question: "anything",
	})
	if !errors.Is(err, domaindatasets.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestProfileReportsColumns(t *testing.T) {
	svc, id := newTestService(t)

	rep, err := svc.Profile("acme", id)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if rep.DatasetOverview.TotalRows != 3 || rep.DatasetOverview.TotalColumns != 3 {
		t.Fatalf("overview: %+v", rep.DatasetOverview)
	}
}

func TestSuggestQuestionsForDataset(t *testing.T) {
	svc, id := newTestService(t)

	res, err := svc.SuggestQuestions(context.Background(), "acme", id, 0)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if res.Source != "fallback" {
		t.Fatalf("source: %q", res.Source)
	}
	if len(res.Questions) == 0 {
		t.Fatal("expected suggestions")
	}

	_, err = svc.SuggestQuestions(context.Background(), "acme", "missing", 0)
	if !errors.Is(err, domaindatasets.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSummaryDefaultsWindow(t *testing.T) {
	svc, id := newTestService(t)
	for _, q := range []string{"mean age", "max salary"} {
		if _, err := svc.Ask(context.Background(), AskCommand{
			TenantID: "acme", DatasetID: id, Question: q,
		}); err != nil {
			t.Fatalf("ask %q: %v", q, err)
		}
	}

	sum, err := svc.Summary(context.Background(), "acme", 0)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.SinceDays != 30 {
		t.Fatalf("since days: %d", sum.SinceDays)
	}
	if sum.Total != 2 || sum.Fallback != 2 || sum.Model != 0 {
		t.Fatalf("summary: %+v", sum)
	}
}
