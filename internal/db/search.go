package db

import "github.com/bookdex-io/bookdex/internal/domain"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	Filter       domain.Filter
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
// Score is the cosine similarity mapped to [0,1].
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
