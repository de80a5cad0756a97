package index

import (
	"context"
	"errors"
	"testing"

	"github.com/bookdex-io/bookdex/internal/db"
	"github.com/bookdex-io/bookdex/internal/domain"
)

func TestEnsureIndex_CreatesWhenAbsent(t *testing.T) {
	repo, ms := newTestRepo(t)

	var captured *db.IndexDefinition
	ms.indexExistsFn = func(_ context.Context, name string) (bool, error) {
		if name != "bookdex:book:idx" {
			t.Errorf("unexpected index name %q", name)
		}
		return false, nil
	}
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		captured = def
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured == nil {
		t.Fatal("expected CreateIndex call")
	}
	if len(captured.Prefixes) != 1 || captured.Prefixes[0] != "bookdex:book:" {
		t.Errorf("unexpected prefixes: %v", captured.Prefixes)
	}

	var vectorField *db.IndexField
	for i := range captured.Fields {
		if captured.Fields[i].Name == "__vector" {
			vectorField = &captured.Fields[i]
		}
	}
	if vectorField == nil {
		t.Fatal("expected __vector field")
	}
	// FT.SEARCH addresses the attribute as @vector and reads __vector_score
	if vectorField.Alias != "vector" {
		t.Errorf("expected alias vector, got %q", vectorField.Alias)
	}
	if vectorField.VectorDim != 384 || vectorField.VectorAlgo != db.VectorHNSW {
		t.Errorf("unexpected vector field: %+v", vectorField)
	}
	if vectorField.VectorDistance != db.DistanceCosine {
		t.Errorf("expected cosine distance, got %s", vectorField.VectorDistance)
	}
}

func TestEnsureIndex_SkipsWhenPresent(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.indexExistsFn = func(context.Context, string) (bool, error) { return true, nil }
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		t.Fatal("CreateIndex must not be called")
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndex_RacingCreateIsIdempotent(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		return db.ErrIndexExists
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsert_WritesSingleHash(t *testing.T) {
	repo, ms := newTestRepo(t)
	book := testBook(t)
	vec := testVector(384)

	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		gotKey = key
		gotFields = fields
		return nil
	}

	if err := repo.Upsert(context.Background(), book, vec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "bookdex:book:book-1" {
		t.Errorf("unexpected key %q", gotKey)
	}
	if gotFields["title"] != book.Title {
		t.Errorf("unexpected title %q", gotFields["title"])
	}
	if gotFields["categories"] != "science fiction,classics" {
		t.Errorf("unexpected categories %q", gotFields["categories"])
	}
	if len(gotFields["__vector"]) != 384*4 {
		t.Errorf("unexpected vector length %d", len(gotFields["__vector"]))
	}
}

func TestUpsert_StoreErrorWrapsIndexUnavailable(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hsetFn = func(context.Context, string, map[string]string) error {
		return &db.Error{Op: db.OpHSet, Err: context.DeadlineExceeded}
	}

	err := repo.Upsert(context.Background(), testBook(t), testVector(4))
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestReset_DropsAndRecreates(t *testing.T) {
	repo, ms := newTestRepo(t)

	dropped, created := false, false
	ms.dropIndexFn = func(_ context.Context, name string) error {
		if name != "bookdex:book:idx" {
			t.Errorf("unexpected index name %q", name)
		}
		dropped = true
		return nil
	}
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		if !dropped {
			t.Error("expected drop before create")
		}
		created = true
		return nil
	}

	if err := repo.Reset(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected CreateIndex call")
	}
}

func TestReset_AbsentIndexStillCreates(t *testing.T) {
	repo, ms := newTestRepo(t)

	created := false
	ms.dropIndexFn = func(context.Context, string) error { return db.ErrIndexNotFound }
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		created = true
		return nil
	}

	if err := repo.Reset(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected CreateIndex call")
	}
}

func TestReset_StoreErrorWrapsIndexUnavailable(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.dropIndexFn = func(context.Context, string) error {
		return &db.Error{Op: db.OpDropIndex, Err: context.DeadlineExceeded}
	}

	if err := repo.Reset(context.Background()); !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestGet_ReturnsEntry(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "bookdex:book:book-1" {
			t.Errorf("unexpected key %q", key)
		}
		return map[string]string{
			"title":          "The Left Hand of Darkness",
			"author":         "Ursula K. Le Guin",
			"format":         "physical",
			"reading_status": "read",
			"categories":     "science fiction,classics",
			"moods":          "reflective",
		}, nil
	}

	got, err := repo.Get(context.Background(), "book-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "book-1" || got.Title != "The Left Hand of Darkness" {
		t.Errorf("unexpected entry: %+v", got)
	}
	if len(got.Categories) != 2 || got.Categories[0] != "science fiction" {
		t.Errorf("unexpected categories %v", got.Categories)
	}
}

func TestGet_AbsentIsNotFound(t *testing.T) {
	repo, ms := newTestRepo(t)

	// HGETALL on a missing key yields an empty map, not an error
	ms.hgetAllFn = func(context.Context, string) (map[string]string, error) {
		return map[string]string{}, nil
	}

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestGet_StoreErrorWrapsIndexUnavailable(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hgetAllFn = func(context.Context, string) (map[string]string, error) {
		return nil, &db.Error{Op: db.OpHGetAll, Err: context.DeadlineExceeded}
	}

	_, err := repo.Get(context.Background(), "book-1")
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestListIDs_StripsKeyPrefix(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "bookdex:book:*" {
			t.Errorf("unexpected pattern %q", pattern)
		}
		return []string{"bookdex:book:a", "bookdex:book:b"}, nil
	}

	ids, err := repo.ListIDs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("unexpected ids %v", ids)
	}
}

func TestDelete_RemovesEntry(t *testing.T) {
	repo, ms := newTestRepo(t)

	deleted := false
	ms.existsFn = func(_ context.Context, key string) (bool, error) { return true, nil }
	ms.delFn = func(_ context.Context, key string) error {
		if key != "bookdex:book:book-1" {
			t.Errorf("unexpected key %q", key)
		}
		deleted = true
		return nil
	}

	if err := repo.Delete(context.Background(), "book-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected Del call")
	}
}

func TestDelete_AbsentIsNoOp(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.existsFn = func(context.Context, string) (bool, error) { return false, nil }
	ms.delFn = func(context.Context, string) error {
		t.Fatal("Del must not be called")
		return nil
	}

	if err := repo.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuery_MapsEntriesToCandidates(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.K != 5 {
			t.Errorf("expected k=5, got %d", q.K)
		}
		if q.Filter.Format != "ebook" {
			t.Errorf("expected filter to pass through, got %+v", q.Filter)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{
					Key:   "bookdex:book:b",
					Score: 0.8,
					Fields: map[string]string{
						"title": "B", "author": "X", "format": "ebook",
						"reading_status": "read", "categories": "fiction", "moods": "",
					},
				},
				{
					Key:   "bookdex:book:a",
					Score: 0.9,
					Fields: map[string]string{
						"title": "A", "author": "Y", "format": "ebook",
						"reading_status": "to-read", "categories": "fiction,classics", "moods": "cozy",
					},
				},
			},
		}, nil
	}

	got, err := repo.Query(context.Background(), testVector(4), 5, domain.Filter{Format: "ebook"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	// ordered by similarity desc
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Similarity != 0.9 {
		t.Errorf("unexpected similarity %f", got[0].Similarity)
	}
	if len(got[0].Categories) != 2 || got[0].Categories[1] != "classics" {
		t.Errorf("unexpected categories %v", got[0].Categories)
	}
	if got[0].Moods[0] != "cozy" {
		t.Errorf("unexpected moods %v", got[0].Moods)
	}
	if got[1].Moods != nil {
		t.Errorf("expected nil moods for empty field, got %v", got[1].Moods)
	}
}

func TestQuery_TieBreakByID(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: "bookdex:book:zeta", Score: 0.5, Fields: map[string]string{}},
				{Key: "bookdex:book:alpha", Score: 0.5, Fields: map[string]string{}},
			},
		}, nil
	}

	got, err := repo.Query(context.Background(), testVector(4), 10, domain.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].ID != "alpha" || got[1].ID != "zeta" {
		t.Errorf("expected id tie-break asc, got %s, %s", got[0].ID, got[1].ID)
	}
}

func TestQuery_EmptyIndex(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{}, nil
	}

	got, err := repo.Query(context.Background(), testVector(4), 10, domain.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestQuery_StoreErrorWrapsIndexUnavailable(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
		return nil, &db.Error{Op: db.OpSearch, Err: context.DeadlineExceeded}
	}

	_, err := repo.Query(context.Background(), testVector(4), 10, domain.Filter{})
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}
