package datasets

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/bryanwahyu/askdata/internal/application"
	"github.com/bryanwahyu/askdata/internal/domain/dataset"
	domain "github.com/bryanwahyu/askdata/internal/domain/datasets"
)

// Service implements use-cases untuk Dataset.
// Tables live in memory per tenant; the raw upload is archived best-effort.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Loader  domain.Loader
	Archive domain.ArchiveStore // optional
	Clock   application.Clock

	mu     sync.RWMutex
	tables map[string]map[domain.DatasetID]*entry
}

type entry struct {
	meta  *domain.Dataset
	table *dataset.Table
}

func NewService(loader domain.Loader, archive domain.ArchiveStore, clock application.Clock) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Service{
		Loader:  loader,
		Archive: archive,
		Clock:   clock,
		tables:  make(map[string]map[domain.DatasetID]*entry),
	}
}

// Command untuk upload dataset
type UploadCommand struct {
	TenantID string
	Name     string
	Data     []byte
}

// Upload parses the CSV, registers the table, and archives the raw bytes.
// Archive failure is logged, never fatal; the in-memory dataset still works.
func (s *Service) Upload(ctx context.Context, cmd UploadCommand) (*domain.Dataset, error) {
	t, err := s.Loader.Load(cmd.Name, cmd.Data)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	id := domain.DatasetID(uuid.New().String())
	meta := &domain.Dataset{
		ID:          id,
		TenantID:    cmd.TenantID,
		Name:        cmd.Name,
		Rows:        t.NumRows(),
		Columns:     t.NumCols(),
		ColumnNames: t.ColumnNames(),
		UploadedAt:  s.Clock.Now(),
	}

	if s.Archive != nil {
		key := fmt.Sprintf("%s/%s/%s", cmd.TenantID, id, cmd.Name)
		url, err := s.Archive.Upload(ctx, key, cmd.Data)
		if err != nil {
			log.Printf("archive upload failed tenant=%s dataset=%s err=%v", cmd.TenantID, id, err)
		} else {
			meta.ArchiveURL = url
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[cmd.TenantID] == nil {
		s.tables[cmd.TenantID] = make(map[domain.DatasetID]*entry)
	}
	s.tables[cmd.TenantID][id] = &entry{meta: meta, table: t}
	return meta, nil
}

// Get returns the table and metadata for one dataset.
func (s *Service) Get(tenant string, id domain.DatasetID) (*dataset.Table, *domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.tables[tenant][id]
	if !ok {
		return nil, nil, fmt.Errorf("dataset %s: %w", id, domain.ErrNotFound)
	}
	return e.table, e.meta, nil
}

// List returns metadata for all of a tenant's datasets, newest first.
func (s *Service) List(tenant string) []*domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Dataset, 0, len(s.tables[tenant]))
	for _, e := range s.tables[tenant] {
		out = append(out, e.meta)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].UploadedAt.After(out[j-1].UploadedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Delete removes the dataset from memory and the archive.
func (s *Service) Delete(ctx context.Context, tenant string, id domain.DatasetID) error {
	s.mu.Lock()
	e, ok := s.tables[tenant][id]
	if ok {
		delete(s.tables[tenant], id)
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("dataset %s: %w", id, domain.ErrNotFound)
	}

	if s.Archive != nil && e.meta.ArchiveURL != "" {
		key := fmt.Sprintf("%s/%s/%s", tenant, id, e.meta.Name)
		if err := s.Archive.Remove(ctx, key); err != nil {
			log.Printf("archive remove failed tenant=%s dataset=%s err=%v", tenant, id, err)
		}
	}
	return nil
}
