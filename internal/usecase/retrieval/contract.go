package retrieval

import (
	"context"

	"github.com/bookdex-io/bookdex/internal/domain"
)

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Index runs KNN queries over book index entries.
type Index interface {
	Query(ctx context.Context, vector []float32, k int, filter domain.Filter) ([]domain.Candidate, error)
}
