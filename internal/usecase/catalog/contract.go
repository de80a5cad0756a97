package catalog

import (
	"context"

	"github.com/bookdex-io/bookdex/internal/domain"
)

// Embedder vectorizes book text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Index is the storage contract for book index entries.
type Index interface {
	Upsert(ctx context.Context, book *domain.Book, vector []float32) error
	Get(ctx context.Context, id string) (domain.Book, error)
	Delete(ctx context.Context, id string) error
	ListIDs(ctx context.Context) ([]string, error)
	Reset(ctx context.Context) error
}
