package bookdex

import (
	"context"

	"github.com/bookdex-io/bookdex/internal/domain"
	cataloguc "github.com/bookdex-io/bookdex/internal/usecase/catalog"
	healthuc "github.com/bookdex-io/bookdex/internal/usecase/health"
)

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	upsertFn func(ctx context.Context, book *domain.Book) error
	getFn    func(ctx context.Context, id string) (domain.Book, error)
	deleteFn func(ctx context.Context, id string) error
	syncFn   func(ctx context.Context, books []domain.Book) (cataloguc.SyncReport, error)
	resetFn  func(ctx context.Context) error
}

func (m *mockCatalogUC) Upsert(ctx context.Context, book *domain.Book) error {
	return m.upsertFn(ctx, book)
}

func (m *mockCatalogUC) Get(ctx context.Context, id string) (domain.Book, error) {
	return m.getFn(ctx, id)
}

func (m *mockCatalogUC) Reset(ctx context.Context) error {
	return m.resetFn(ctx)
}

func (m *mockCatalogUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockCatalogUC) Sync(ctx context.Context, books []domain.Book) (cataloguc.SyncReport, error) {
	return m.syncFn(ctx, books)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, query string, k int, filter domain.Filter) (domain.Response, error)
}

func (m *mockSearchUC) Search(
	ctx context.Context, query string, k int, filter domain.Filter,
) (domain.Response, error) {
	return m.searchFn(ctx, query, k, filter)
}

// --- retrievalUseCase mock ---

type mockRetrievalUC struct {
	retrieveFn func(ctx context.Context, query string, k int, filter domain.Filter) ([]domain.Candidate, error)
}

func (m *mockRetrievalUC) Retrieve(
	ctx context.Context, query string, k int, filter domain.Filter,
) ([]domain.Candidate, error) {
	return m.retrieveFn(ctx, query, k, filter)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

func newTestClient() *Client {
	return &Client{}
}
