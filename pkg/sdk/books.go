package bookdex

import (
	"context"
	"fmt"
	"time"

	"github.com/bookdex-io/bookdex/internal/domain"
)

// IndexBook derives the book's searchable text, embeds it and replaces its
// index entry. A book without derivable text has its entry removed instead.
func (c *Client) IndexBook(ctx context.Context, book Book) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("index_book", start, err) }()

	b := toInternalBook(book)
	if err = c.catalogSvc.Upsert(ctx, &b); err != nil {
		return fmt.Errorf("index book: %w", err)
	}
	return nil
}

// GetBook reads back the indexed slice of a book: the denormalized fields
// its index entry carries. Books without an entry report ErrBookNotFound.
func (c *Client) GetBook(ctx context.Context, id string) (book Book, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get_book", start, err) }()

	b, err := c.catalogSvc.Get(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("get book: %w", err)
	}
	return fromInternalBook(b), nil
}

// RemoveBook deletes a book's index entry. Removing an absent book is a no-op.
func (c *Client) RemoveBook(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("remove_book", start, err) }()

	if err = c.catalogSvc.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove book: %w", err)
	}
	return nil
}

// Sync makes the index match the given catalog snapshot: books are
// re-indexed and entries for books absent from the snapshot are removed.
// Per-book failures are counted in the report, the rest proceed.
func (c *Client) Sync(ctx context.Context, books []Book) (report SyncReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("sync", start, err) }()

	batch := make([]domain.Book, len(books))
	for i, b := range books {
		batch[i] = toInternalBook(b)
	}

	r, err := c.catalogSvc.Sync(ctx, batch)
	if err != nil {
		return SyncReport{}, fmt.Errorf("sync: %w", err)
	}
	return SyncReport{Indexed: r.Indexed, Skipped: r.Skipped, Failed: r.Failed, Removed: r.Removed}, nil
}

// ResetIndex drops and recreates the vector index, typically after changing
// WithVectorDimensions. Follow up with Sync to refill it.
func (c *Client) ResetIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("reset_index", start, err) }()

	if err = c.catalogSvc.Reset(ctx); err != nil {
		return fmt.Errorf("reset index: %w", err)
	}
	return nil
}
