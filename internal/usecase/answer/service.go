// Package answer composes a grounded natural-language answer over retrieved
// book candidates.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookdex-io/bookdex/internal/domain"
)

// Service builds the librarian prompt and calls the completion model.
type Service struct {
	llm             Completer
	maxContextBooks int
}

// New creates an answer composition service. maxContextBooks caps how many
// candidates enter the prompt, independent of the retrieval k.
func New(llm Completer, maxContextBooks int) *Service {
	return &Service{llm: llm, maxContextBooks: maxContextBooks}
}

// Compose returns an answer grounded in the supplied candidates. With no
// candidates the model is still called, prompted to plainly say that nothing
// matched. Failures wrap domain.ErrCompositionFailed.
func (s *Service) Compose(ctx context.Context, query string, candidates []domain.Candidate) (string, error) {
	if s.maxContextBooks > 0 && len(candidates) > s.maxContextBooks {
		candidates = candidates[:s.maxContextBooks]
	}

	reply, err := s.llm.Complete(ctx, systemPrompt, buildUserMessage(query, candidates))
	if err != nil {
		return "", fmt.Errorf("compose answer: %w", err)
	}

	return strings.TrimSpace(reply), nil
}
