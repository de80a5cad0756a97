package embedding

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/bookdex-io/bookdex/internal/domain"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

func TestInstrumented_PassesResultThrough(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1, 0.2},
		TotalTokens: 5,
	}}
	emb := NewInstrumentedEmbedder(inner, "test-model", zap.NewNop())

	result, err := emb.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 2 || result.TotalTokens != 5 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestInstrumented_WrapsError(t *testing.T) {
	inner := &mockEmbedder{err: domain.ErrEncoderUnavailable}
	emb := NewInstrumentedEmbedder(inner, "test-model", zap.NewNop())

	_, err := emb.Embed(context.Background(), "text")
	if !errors.Is(err, domain.ErrEncoderUnavailable) {
		t.Errorf("expected ErrEncoderUnavailable, got %v", err)
	}
}
