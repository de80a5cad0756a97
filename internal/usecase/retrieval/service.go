// Package retrieval turns a natural-language query into ranked book candidates.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookdex-io/bookdex/internal/domain"
)

// Service embeds queries and retrieves nearest books from the index.
type Service struct {
	embed       Embedder
	index       Index
	defaultTopK int
	maxTopK     int
}

// New creates a retrieval service.
func New(embed Embedder, index Index, defaultTopK, maxTopK int) *Service {
	return &Service{
		embed:       embed,
		index:       index,
		defaultTopK: defaultTopK,
		maxTopK:     maxTopK,
	}
}

// Retrieve returns up to k candidates for the query, all satisfying the
// filter, ordered by similarity desc. A blank query is rejected before any
// encoder or index call. k <= 0 falls back to the default, k above the
// maximum is clamped.
func (s *Service) Retrieve(
	ctx context.Context, query string, k int, filter domain.Filter,
) ([]domain.Candidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidQuery
	}

	if k <= 0 {
		k = s.defaultTopK
	}
	if k > s.maxTopK {
		k = s.maxTopK
	}

	result, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	candidates, err := s.index.Query(ctx, result.Embedding, k, filter)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	return candidates, nil
}
