// Package catalog implements the write path: book lifecycle events arriving
// from the relational book store are reflected into the vector index.
package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bookdex-io/bookdex/internal/domain"
)

// Service keeps the vector index in sync with the book catalog.
type Service struct {
	embed  Embedder
	index  Index
	logger *zap.Logger
	locks  *keyedMutex
}

// New creates a catalog service.
func New(embed Embedder, index Index, logger *zap.Logger) *Service {
	return &Service{
		embed:  embed,
		index:  index,
		logger: logger,
		locks:  newKeyedMutex(),
	}
}

// Upsert re-derives a book's searchable text and replaces its index entry.
// A book without derivable text carries no index entry, so an update that
// clears the text removes the entry. Writes to the same id are serialized
// (last write wins); different ids do not contend.
func (s *Service) Upsert(ctx context.Context, book *domain.Book) error {
	if err := book.Validate(); err != nil {
		return err
	}

	s.locks.Lock(book.ID)
	defer s.locks.Unlock(book.ID)

	text := book.SearchText()
	if text == "" {
		if err := s.index.Delete(ctx, book.ID); err != nil {
			return fmt.Errorf("remove entry for textless book %s: %w", book.ID, err)
		}
		return nil
	}

	result, err := s.embed.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed book %s: %w", book.ID, err)
	}

	if err := s.index.Upsert(ctx, book, result.Embedding); err != nil {
		return fmt.Errorf("index book %s: %w", book.ID, err)
	}

	return nil
}

// Get returns the indexed slice of a book: the denormalized fields its index
// entry carries. Books without an entry (deleted, textless, or never synced)
// report domain.ErrBookNotFound.
func (s *Service) Get(ctx context.Context, id string) (domain.Book, error) {
	if id == "" {
		return domain.Book{}, fmt.Errorf("book id is required")
	}

	book, err := s.index.Get(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("get book %s: %w", id, err)
	}
	return book, nil
}

// Reset drops and recreates the vector index, typically after a schema change
// such as new embedding dimensions. Callers follow up with Sync to refill it.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.index.Reset(ctx); err != nil {
		return fmt.Errorf("reset index: %w", err)
	}
	return nil
}

// Delete removes a book's index entry. Removing an absent book is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("book id is required")
	}

	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	if err := s.index.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	return nil
}

// SyncReport summarizes a backfill run.
type SyncReport struct {
	Indexed int
	Skipped int
	Failed  int
	Removed int
}

// Sync makes the index match the given catalog snapshot: every book with
// derivable text is re-indexed, books without are skipped (their entries
// removed), and entries whose book is absent from the snapshot are deleted.
// Per-book failures are logged and counted, the rest proceed.
func (s *Service) Sync(ctx context.Context, books []domain.Book) (SyncReport, error) {
	var report SyncReport

	for i := range books {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("sync interrupted: %w", err)
		}

		book := &books[i]
		if err := s.Upsert(ctx, book); err != nil {
			report.Failed++
			s.logger.Warn("Failed to sync book",
				zap.String("book_id", book.ID),
				zap.Error(err),
			)
			continue
		}

		if book.SearchText() == "" {
			report.Skipped++
		} else {
			report.Indexed++
		}
	}

	report.Removed = s.removeStaleEntries(ctx, books)
	return report, nil
}

// removeStaleEntries deletes index entries for books no longer in the
// snapshot. Best-effort: a listing failure leaves the stale entries for the
// next sync.
func (s *Service) removeStaleEntries(ctx context.Context, books []domain.Book) int {
	present := make(map[string]bool, len(books))
	for i := range books {
		present[books[i].ID] = true
	}

	ids, err := s.index.ListIDs(ctx)
	if err != nil {
		s.logger.Warn("Failed to list index entries", zap.Error(err))
		return 0
	}

	removed := 0
	for _, id := range ids {
		if present[id] || ctx.Err() != nil {
			continue
		}
		if err := s.Delete(ctx, id); err != nil {
			s.logger.Warn("Failed to remove stale entry",
				zap.String("book_id", id),
				zap.Error(err),
			)
			continue
		}
		removed++
	}
	return removed
}
