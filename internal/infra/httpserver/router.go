package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appasking "github.com/bryanwahyu/askdata/internal/application/asking"
	appdatasets "github.com/bryanwahyu/askdata/internal/application/datasets"
	domain "github.com/bryanwahyu/askdata/internal/domain/datasets"
	"github.com/bryanwahyu/askdata/internal/domain/queries"
	"github.com/bryanwahyu/askdata/internal/middleware"
)

const maxUploadBytes = 50 << 20 // 50 MB

type Router struct {
	datasetsSvc *appdatasets.Service
	askingSvc   *appasking.Service
}

func NewRouter(datasetsSvc *appdatasets.Service, askingSvc *appasking.Service, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{datasetsSvc: datasetsSvc, askingSvc: askingSvc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/datasets", r.wrap(r.handleUpload))
		rt.Get("/datasets", r.wrap(r.handleListDatasets))
		rt.Get("/datasets/{id}", r.wrap(r.handleGetDataset))
		rt.Delete("/datasets/{id}", r.wrap(r.handleDeleteDataset))
		rt.Get("/datasets/{id}/profile", r.wrap(r.handleProfile))
		rt.Get("/datasets/{id}/questions", r.wrap(r.handleSuggestions))
		rt.Post("/query", r.wrap(r.handleQuery))
		rt.Get("/queries/latest", r.wrap(r.handleLatest))
		rt.Get("/queries", r.wrap(r.handleHistory))
		rt.Get("/queries/{id}", r.wrap(r.handleGetQuery))
		rt.Get("/summary", r.wrap(r.handleSummary))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks an error as the caller's fault.
type badRequest struct{ error }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			var br badRequest
			if errors.As(err, &br) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func tenantFrom(req *http.Request) (string, error) {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return "", badRequest{err}
	}
	return tenant, nil
}

// POST /v1/{tenant}/datasets
// multipart form, field "file" berisi CSV
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}

	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return badRequest{fmt.Errorf("parsing upload: %w", err)}
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return badRequest{fmt.Errorf("file field is required")}
	}
	defer file.Close()

	if err := middleware.ValidateFilename(header.Filename); err != nil {
		return badRequest{err}
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	meta, err := r.datasetsSvc.Upload(req.Context(), appdatasets.UploadCommand{
		TenantID: tenant,
		Name:     header.Filename,
		Data:     data,
	})
	if err != nil {
		return badRequest{err}
	}
	middleware.IncrementDatasets()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(meta)
}

// GET /v1/{tenant}/datasets
func (r *Router) handleListDatasets(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(r.datasetsSvc.List(tenant))
}

// GET /v1/{tenant}/datasets/{id}
func (r *Router) handleGetDataset(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	_, meta, err := r.datasetsSvc.Get(tenant, domain.DatasetID(id))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(meta)
}

// DELETE /v1/{tenant}/datasets/{id}
func (r *Router) handleDeleteDataset(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	if err := r.datasetsSvc.Delete(req.Context(), tenant, domain.DatasetID(id)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/{tenant}/datasets/{id}/profile
func (r *Router) handleProfile(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	report, err := r.askingSvc.Profile(tenant, id)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(report)
}

// GET /v1/{tenant}/datasets/{id}/questions?limit=5
func (r *Router) handleSuggestions(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	res, err := r.askingSvc.SuggestQuestions(req.Context(), tenant, id, limit)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(res)
}

// POST /v1/{tenant}/query
// Body: {"dataset_id": "<id>", "question": "..."}
func (r *Router) handleQuery(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	var body struct {
		DatasetID string `json:"dataset_id"`
		Question  string `json:"question"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{err}
	}
	if err := middleware.ValidateQuestion(body.Question); err != nil {
		return badRequest{err}
	}
	if body.DatasetID == "" {
		return badRequest{fmt.Errorf("dataset_id is required")}
	}

	res, err := r.askingSvc.Ask(req.Context(), appasking.AskCommand{
		TenantID:  tenant,
		DatasetID: body.DatasetID,
		Question:  middleware.SanitizeString(body.Question),
	})
	if err != nil {
		return err
	}

	middleware.IncrementQuestions()
	if res.Source == "model" {
		middleware.IncrementQuestionsModel()
	} else {
		middleware.IncrementQuestionsFallback()
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(res)
}

// GET /v1/{tenant}/queries/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.askingSvc.Latest(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/queries?page=&page_size=&dataset_id=&source=&result_type=&q=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	qs := req.URL.Query()
	page, _ := strconv.Atoi(qs.Get("page"))
	size, _ := strconv.Atoi(qs.Get("page_size"))

	filters := map[string]interface{}{}
	if v := qs.Get("dataset_id"); v != "" {
		filters["dataset_id"] = v
	}
	if v := qs.Get("source"); v != "" {
		filters["source"] = v
	}
	if v := qs.Get("result_type"); v != "" {
		filters["result_type"] = v
	}
	if v := qs.Get("q"); v != "" {
		filters["question"] = v
	}

	list, err := r.askingSvc.History(req.Context(), tenant, page, middleware.ValidateLimit(size), filters)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/queries/{id}
func (r *Router) handleGetQuery(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	q, err := r.askingSvc.Repo.Get(req.Context(), tenant, queries.QueryID(id))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(q)
}

// GET /v1/{tenant}/summary?days=30
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))

	summary, err := r.askingSvc.Summary(req.Context(), tenant, middleware.ValidateDays(days))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(summary)
}
