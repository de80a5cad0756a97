package bookdex

import (
	"context"
	"fmt"
	"time"
)

// Search runs the full pipeline: retrieval plus answer composition. When
// composition fails (or no Completer is configured) the response carries
// the fallback answer and the retrieved candidates; only retrieval errors
// are returned.
func (c *Client) Search(ctx context.Context, query string, k int, filter Filter) (resp SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	r, err := c.searchSvc.Search(ctx, query, k, toInternalFilter(filter))
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}
	return SearchResponse{
		Answer:  r.Answer,
		Results: fromInternalCandidates(r.Results),
	}, nil
}

// Retrieve runs retrieval only: the k nearest books to the query, most
// similar first, with no LLM involved.
func (c *Client) Retrieve(ctx context.Context, query string, k int, filter Filter) (results []Candidate, err error) {
	start := time.Now()
	defer func() { c.obs.observe("retrieve", start, err) }()

	cands, err := c.retrSvc.Retrieve(ctx, query, k, toInternalFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	return fromInternalCandidates(cands), nil
}
