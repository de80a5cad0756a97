// Package index persists book index entries and serves KNN queries over them.
package index

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bookdex-io/bookdex/internal/db"
	"github.com/bookdex-io/bookdex/internal/domain"
)

// store is the consumer interface for the book index (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Options configure the index shape.
type Options struct {
	KeyPrefix       string
	Dimensions      int
	HNSWM           int
	HNSWEFConstruct int
}

// Repo implements the book vector index over a hash store with FT.SEARCH.
type Repo struct {
	store store
	opts  Options
}

// New creates a book index repository.
func New(s store, opts Options) *Repo {
	return &Repo{store: s, opts: opts}
}

// EnsureIndex creates the FT index if it does not exist yet. Idempotent,
// called once at startup.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	name := r.indexName()

	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("probe index %s: %w: %w", name, domain.ErrIndexUnavailable, err)
	}
	if exists {
		return nil
	}

	return r.createIndex(ctx)
}

// Reset drops the index and creates it fresh. Entries under the key prefix
// survive the drop and are re-indexed under the new schema; after a
// dimension change the stored vectors are stale, so callers follow up with
// a full Sync.
func (r *Repo) Reset(ctx context.Context) error {
	name := r.indexName()

	if err := r.store.DropIndex(ctx, name); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w: %w", name, domain.ErrIndexUnavailable, err)
	}

	return r.createIndex(ctx)
}

func (r *Repo) createIndex(ctx context.Context) error {
	name := r.indexName()

	def := &db.IndexDefinition{
		Name:     name,
		Prefixes: []string{r.bookKeyPrefix()},
		Fields: []db.IndexField{
			{Name: "format", Type: db.IndexFieldTag},
			{Name: "reading_status", Type: db.IndexFieldTag},
			{Name: "categories", Type: db.IndexFieldTag, TagSeparator: ","},
			{Name: "moods", Type: db.IndexFieldTag, TagSeparator: ","},
			{
				Name:              "__vector",
				Alias:             "vector",
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         r.opts.Dimensions,
				VectorDistance:    db.DistanceCosine,
				VectorM:           r.opts.HNSWM,
				VectorEFConstruct: r.opts.HNSWEFConstruct,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w: %w", name, domain.ErrIndexUnavailable, err)
	}
	return nil
}

// Upsert writes the index entry for a book as one HSET, replacing any prior
// entry under the same id.
func (r *Repo) Upsert(ctx context.Context, book *domain.Book, vector []float32) error {
	key := r.bookKey(book.ID)
	if err := r.store.HSet(ctx, key, buildHashFields(book, vector)); err != nil {
		return fmt.Errorf("upsert %s: %w: %w", key, domain.ErrIndexUnavailable, err)
	}
	return nil
}

// Get reads back the denormalized index entry for a book.
func (r *Repo) Get(ctx context.Context, id string) (domain.Book, error) {
	key := r.bookKey(id)

	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.Book{}, fmt.Errorf("get %s: %w: %w", key, domain.ErrIndexUnavailable, err)
	}
	if len(fields) == 0 {
		return domain.Book{}, fmt.Errorf("book %s: %w", id, domain.ErrBookNotFound)
	}

	return parseEntry(id, fields), nil
}

// ListIDs returns the ids of all indexed books.
func (r *Repo) ListIDs(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, r.bookKeyPrefix()+"*")
	if err != nil {
		return nil, fmt.Errorf("scan entries: %w: %w", domain.ErrIndexUnavailable, err)
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, r.extractID(key))
	}
	return ids, nil
}

// Delete removes a book's index entry. Removing an absent entry is a no-op.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.bookKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w: %w", key, domain.ErrIndexUnavailable, err)
	}
	if !exists {
		return nil
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w: %w", key, domain.ErrIndexUnavailable, err)
	}
	return nil
}

// Query returns up to k candidates nearest to the vector, all satisfying the
// filter, ordered by similarity desc with id as the tie-break. An empty index
// yields an empty slice.
func (r *Repo) Query(ctx context.Context, vector []float32, k int, filter domain.Filter) ([]domain.Candidate, error) {
	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.indexName(),
		Vector:       vector,
		K:            k,
		Filter:       filter,
		ReturnFields: candidateFields,
	})
	if err != nil {
		return nil, fmt.Errorf("knn query: %w: %w", domain.ErrIndexUnavailable, err)
	}

	candidates := make([]domain.Candidate, 0, len(result.Entries))
	for _, entry := range result.Entries {
		candidates = append(candidates, parseCandidate(r.extractID(entry.Key), entry.Score, entry.Fields))
	}

	domain.SortCandidates(candidates)
	return candidates, nil
}

func (r *Repo) bookKeyPrefix() string {
	return r.opts.KeyPrefix + "book:"
}

func (r *Repo) bookKey(id string) string {
	return r.bookKeyPrefix() + id
}

func (r *Repo) indexName() string {
	return r.opts.KeyPrefix + "book:idx"
}

func (r *Repo) extractID(key string) string {
	return strings.TrimPrefix(key, r.bookKeyPrefix())
}
