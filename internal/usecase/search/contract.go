package search

import (
	"context"

	"github.com/bookdex-io/bookdex/internal/domain"
)

// Retriever returns ranked candidates for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int, filter domain.Filter) ([]domain.Candidate, error)
}

// Composer generates a grounded answer over candidates.
type Composer interface {
	Compose(ctx context.Context, query string, candidates []domain.Candidate) (string, error)
}
