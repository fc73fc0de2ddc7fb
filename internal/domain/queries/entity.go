package queries

import (
	"time"

	"github.com/bryanwahyu/askdata/internal/domain/answer"
)

// ID tipe untuk Query
type QueryID string

// Aggregate Root: one answered question
type Query struct {
	ID          QueryID           `json:"id"`
	TenantID    string            `json:"tenant_id"`
	DatasetID   string            `json:"dataset_id"`
	Question    string            `json:"question"`
	ResultType  answer.ResultType `json:"result_type"`
	Explanation string            `json:"explanation,omitempty"`
	Source      string            `json:"source,omitempty"` // "model" or "fallback"
	AskedAt     time.Time         `json:"asked_at"`
	DurationMS  int64             `json:"duration_ms"`
}
