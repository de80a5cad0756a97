// Package search orchestrates the read path: retrieval followed by answer
// composition, degrading to retrieval-only results when composition fails.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bookdex-io/bookdex/internal/domain"
	"github.com/bookdex-io/bookdex/internal/metrics"
)

// Service is the stateless search orchestrator.
type Service struct {
	retriever      Retriever
	composer       Composer
	fallbackAnswer string
	logger         *zap.Logger
}

// New creates a search service. fallbackAnswer is returned verbatim when
// composition fails after a successful retrieval.
func New(retriever Retriever, composer Composer, fallbackAnswer string, logger *zap.Logger) *Service {
	return &Service{
		retriever:      retriever,
		composer:       composer,
		fallbackAnswer: fallbackAnswer,
		logger:         logger,
	}
}

// Search runs retrieval then composition. Retrieval failure propagates;
// composition failure degrades to the retrieved candidates plus the fixed
// fallback answer, never an error. Each call is independent.
func (s *Service) Search(
	ctx context.Context, query string, k int, filter domain.Filter,
) (domain.Response, error) {
	candidates, err := s.retriever.Retrieve(ctx, query, k, filter)
	if err != nil {
		return domain.Response{}, fmt.Errorf("retrieve: %w", err)
	}

	answer, err := s.composer.Compose(ctx, query, candidates)
	if err != nil {
		metrics.SearchDegradedTotal.Inc()
		s.logger.Warn("Answer composition failed, returning retrieval-only results",
			zap.Int("candidates", len(candidates)),
			zap.Error(err),
		)
		return domain.Response{Answer: s.fallbackAnswer, Results: candidates}, nil
	}

	return domain.Response{Answer: answer, Results: candidates}, nil
}
