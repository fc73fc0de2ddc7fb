package datasets

import (
	"errors"
	"time"
)

// ID tipe untuk Dataset
type DatasetID string

// ErrNotFound dipakai repo/registry kalau dataset tidak ada
var ErrNotFound = errors.New("dataset not found")

// Aggregate Root: one loaded dataset and its metadata. The table itself is
// held by the registry; this record is what persists and lists.
type Dataset struct {
	ID          DatasetID `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	ColumnNames []string  `json:"column_names"`
	ArchiveURL  string    `json:"archive_url,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
