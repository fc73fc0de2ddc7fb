package asking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bryanwahyu/askdata/internal/application"
	"github.com/bryanwahyu/askdata/internal/application/datasets"
	"github.com/bryanwahyu/askdata/internal/application/orchestrate"
	"github.com/bryanwahyu/askdata/internal/application/profile"
	domaindatasets "github.com/bryanwahyu/askdata/internal/domain/datasets"
	"github.com/bryanwahyu/askdata/internal/domain/queries"
)

// Service implements use-cases untuk tanya-jawab atas dataset.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Datasets     *datasets.Service
	Orchestrator *orchestrate.Service
	Repo         queries.Repository
	Clock        application.Clock
}

func NewService(ds *datasets.Service, orch *orchestrate.Service, repo queries.Repository, clock application.Clock) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Service{Datasets: ds, Orchestrator: orch, Repo: repo, Clock: clock}
}

// Command untuk ask
type AskCommand struct {
	TenantID  string
	DatasetID string
	Question  string
}

type AskResult struct {
	ID          string `json:"id"`
	Explanation string `json:"explanation"`
	Result      string `json:"result"`
	ResultData  any    `json:"result_data"`
	ResultType  string `json:"result_type"`
	Source      string `json:"source"`
	DurationMS  int64  `json:"duration_ms"`
}

// Ask answers one question → record it in history. A repository save failure
// is returned, but the answer envelope is always filled in first.
func (s *Service) Ask(ctx context.Context, cmd AskCommand) (AskResult, error) {
	t, _, err := s.Datasets.Get(cmd.TenantID, domaindatasets.DatasetID(cmd.DatasetID))
	if err != nil {
		return AskResult{}, err
	}

	started := s.Clock.Now()
	env, source := s.Orchestrator.Answer(ctx, t, cmd.Question)
	elapsed := s.Clock.Now().Sub(started).Milliseconds()

	res := AskResult{
		ID:          uuid.New().String(),
		Explanation: env.Explanation,
		Result:      env.Result,
		ResultData:  env.ResultData,
		ResultType:  string(env.ResultType),
		Source:      source,
		DurationMS:  elapsed,
	}

	q := &queries.Query{
		ID:          queries.QueryID(res.ID),
		TenantID:    cmd.TenantID,
		DatasetID:   cmd.DatasetID,
		Question:    cmd.Question,
		ResultType:  env.ResultType,
		Explanation: env.Explanation,
		Source:      source,
		AskedAt:     started,
		DurationMS:  elapsed,
	}
	if err := s.Repo.Save(ctx, q); err != nil {
		return res, fmt.Errorf("saving query history: %w", err)
	}
	return res, nil
}

type SuggestionsResult struct {
	Questions []string `json:"questions"`
	Source    string   `json:"source"`
}

// SuggestQuestions proposes questions the user could ask about one dataset.
func (s *Service) SuggestQuestions(ctx context.Context, tenant, datasetID string, n int) (SuggestionsResult, error) {
	t, _, err := s.Datasets.Get(tenant, domaindatasets.DatasetID(datasetID))
	if err != nil {
		return SuggestionsResult{}, err
	}
	qs, source := s.Orchestrator.Suggest(ctx, t, n)
	return SuggestionsResult{Questions: qs, Source: source}, nil
}

// Profile builds the full dataset report.
func (s *Service) Profile(tenant, datasetID string) (*profile.Report, error) {
	t, _, err := s.Datasets.Get(tenant, domaindatasets.DatasetID(datasetID))
	if err != nil {
		return nil, err
	}
	return profile.Build(t), nil
}

// Latest returns the most recent queries for a tenant.
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*queries.Query, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.Repo.Latest(ctx, tenant, limit)
}

// History returns one page of the query history with filters applied.
func (s *Service) History(ctx context.Context, tenant string, page, pageSize int, filters map[string]interface{}) (queries.PaginatedResult, error) {
	return s.Repo.Paginate(ctx, tenant, page, pageSize, filters)
}

type SummaryResult struct {
	Total     int `json:"total"`
	Model     int `json:"model"`
	Fallback  int `json:"fallback"`
	SinceDays int `json:"since_days"`
}

// Summary reports the model/fallback split over the last N days.
func (s *Service) Summary(ctx context.Context, tenant string, sinceDays int) (SummaryResult, error) {
	if sinceDays <= 0 {
		sinceDays = 30
	}
	total, model, fallback, err := s.Repo.Summary(ctx, tenant, sinceDays)
	if err != nil {
		return SummaryResult{}, err
	}
	return SummaryResult{Total: total, Model: model, Fallback: fallback, SinceDays: sinceDays}, nil
}
