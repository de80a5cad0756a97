package embcache

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/bookdex-io/bookdex/internal/db"
	"github.com/bookdex-io/bookdex/internal/domain"
)

type mockKV struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockKV) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKV) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

type mockEmbedder struct {
	calls  int
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

func TestEmbed_MissCallsInnerAndCaches(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1, 0.2},
		TotalTokens: 7,
	}}

	var storedKey string
	var storedData []byte
	kv := &mockKV{
		setFn: func(_ context.Context, key string, value []byte) error {
			storedKey = key
			storedData = value
			return nil
		},
	}

	c := New(inner, kv, "bookdex:", nil, zap.NewNop())
	result, err := c.Embed(context.Background(), "a cozy mystery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if result.TotalTokens != 7 {
		t.Errorf("expected token usage from inner, got %d", result.TotalTokens)
	}
	if !strings.HasPrefix(storedKey, "bookdex:emb_cache:") {
		t.Errorf("unexpected cache key %q", storedKey)
	}
	if len(storedData) != 8 {
		t.Errorf("expected 8 cached bytes, got %d", len(storedData))
	}
}

func TestEmbed_HitSkipsInner(t *testing.T) {
	inner := &mockEmbedder{}
	kv := &mockKV{
		getFn: func(context.Context, string) ([]byte, error) {
			return vectorToCacheBytes([]float32{0.5, 0.25}), nil
		},
	}

	c := New(inner, kv, "bookdex:", nil, zap.NewNop())
	result, err := c.Embed(context.Background(), "a cozy mystery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 0 {
		t.Errorf("expected no inner calls, got %d", inner.calls)
	}
	if len(result.Embedding) != 2 || result.Embedding[0] != 0.5 {
		t.Errorf("unexpected embedding %v", result.Embedding)
	}
	if result.TotalTokens != 0 {
		t.Errorf("cache hit must report zero tokens, got %d", result.TotalTokens)
	}
}

func TestEmbed_CorruptCacheFallsThrough(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}}
	kv := &mockKV{
		getFn: func(context.Context, string) ([]byte, error) {
			return []byte("abc"), nil // not a multiple of 4
		},
	}

	c := New(inner, kv, "bookdex:", nil, zap.NewNop())
	if _, err := c.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected inner call on corrupt cache, got %d", inner.calls)
	}
}

func TestEmbed_InnerErrorPropagates(t *testing.T) {
	innerErr := errors.New("provider down")
	inner := &mockEmbedder{err: innerErr}

	c := New(inner, &mockKV{}, "bookdex:", nil, zap.NewNop())
	_, err := c.Embed(context.Background(), "text")
	if !errors.Is(err, innerErr) {
		t.Errorf("expected inner error, got %v", err)
	}
}

func TestEmbed_SetFailureIsNonFatal(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}}
	kv := &mockKV{
		setFn: func(context.Context, string, []byte) error {
			return errors.New("write failed")
		},
	}

	c := New(inner, kv, "bookdex:", nil, zap.NewNop())
	if _, err := c.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCacheKey_DiffersByText(t *testing.T) {
	c := New(&mockEmbedder{}, &mockKV{}, "bookdex:", nil, zap.NewNop())
	if c.cacheKey("a") == c.cacheKey("b") {
		t.Error("expected distinct keys for distinct texts")
	}
}
