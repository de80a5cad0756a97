package bookdex

import "context"

// Embedder converts text to vector embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Completer generates the conversational answer from a system and user
// prompt. Optional — without it, Search returns retrieval-only results.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
