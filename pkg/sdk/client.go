package bookdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bookdex-io/bookdex/internal/config"
	"github.com/bookdex-io/bookdex/internal/db"
	dbRedis "github.com/bookdex-io/bookdex/internal/db/redis"
	"github.com/bookdex-io/bookdex/internal/domain"
	indexrepo "github.com/bookdex-io/bookdex/internal/repository/index"
	answeruc "github.com/bookdex-io/bookdex/internal/usecase/answer"
	cataloguc "github.com/bookdex-io/bookdex/internal/usecase/catalog"
	healthuc "github.com/bookdex-io/bookdex/internal/usecase/health"
	retrievaluc "github.com/bookdex-io/bookdex/internal/usecase/retrieval"
	searchuc "github.com/bookdex-io/bookdex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the use case services.
type catalogUseCase interface {
	Upsert(ctx context.Context, book *domain.Book) error
	Get(ctx context.Context, id string) (domain.Book, error)
	Delete(ctx context.Context, id string) error
	Sync(ctx context.Context, books []domain.Book) (cataloguc.SyncReport, error)
	Reset(ctx context.Context) error
}

type searchUseCase interface {
	Search(ctx context.Context, query string, k int, filter domain.Filter) (domain.Response, error)
}

type retrievalUseCase interface {
	Retrieve(ctx context.Context, query string, k int, filter domain.Filter) ([]domain.Candidate, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the bookdex SDK entry point.
type Client struct {
	store      db.Store
	catalogSvc catalogUseCase
	searchSvc  searchUseCase
	retrSvc    retrievalUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a bookdex Client, connects to the database and ensures the
// vector index exists. The provided context bounds the readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:        "bookdex:",
		vectorDimensions: 384,
		hnswM:            16,
		hnswEFConstruct:  200,
		defaultTopK:      10,
		maxTopK:          50,
		maxContextBooks:  10,
		fallbackAnswer:   config.DefaultFallbackAnswer,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("bookdex: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("bookdex: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("bookdex: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	return wireClient(ctx, store, cfg, obs)
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	indexRepo := indexrepo.New(store, indexrepo.Options{
		KeyPrefix:       cfg.keyPrefix,
		Dimensions:      cfg.vectorDimensions,
		HNSWM:           cfg.hnswM,
		HNSWEFConstruct: cfg.hnswEFConstruct,
	})
	if err := indexRepo.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("bookdex: ensure index: %w", err)
	}

	// Embedder: noop unless configured (indexing and search return an error)
	var domEmb domain.Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}

	// Completer: noop unless configured (search degrades to retrieval-only)
	var completer answeruc.Completer = &noopCompleter{}
	if cfg.completer != nil {
		completer = cfg.completer
	}

	catalogSvc := cataloguc.New(domEmb, indexRepo, zap.NewNop())
	retrSvc := retrievaluc.New(domEmb, indexRepo, cfg.defaultTopK, cfg.maxTopK)
	answerSvc := answeruc.New(completer, cfg.maxContextBooks)
	searchSvc := searchuc.New(retrSvc, answerSvc, cfg.fallbackAnswer, zap.NewNop())
	healthSvc := healthuc.New(store, nil)

	return &Client{
		store:      store,
		catalogSvc: catalogSvc,
		searchSvc:  searchSvc,
		retrSvc:    retrSvc,
		healthSvc:  healthSvc,
		obs:        obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, fmt.Errorf(
		"%w: embedder not configured (use WithEmbedder)", domain.ErrEncoderUnavailable,
	)
}

// noopCompleter fails every completion so the search orchestrator falls back
// to retrieval-only results.
type noopCompleter struct{}

func (noopCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return "", fmt.Errorf("%w: completer not configured (use WithCompleter)", domain.ErrCompositionFailed)
}
