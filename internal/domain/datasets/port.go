package datasets

import (
	"context"

	"github.com/bryanwahyu/askdata/internal/domain/dataset"
)

// Loader port (parse raw upload bytes menjadi table)
type Loader interface {
	Load(name string, data []byte) (*dataset.Table, error)
}

// LoaderFunc adapts a plain function to the Loader port.
type LoaderFunc func(name string, data []byte) (*dataset.Table, error)

func (f LoaderFunc) Load(name string, data []byte) (*dataset.Table, error) { return f(name, data) }

// ArchiveStore port (penyimpanan salinan mentah dataset)
type ArchiveStore interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
	Fetch(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}
