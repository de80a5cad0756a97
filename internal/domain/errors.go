package domain

import "errors"

var (
	// ErrInvalidQuery signals an empty or whitespace-only search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrEncoderUnavailable signals an embedding provider failure.
	ErrEncoderUnavailable = errors.New("embedding encoder unavailable")
	// ErrIndexUnavailable signals an unreachable vector index backend.
	// Write-path callers treat this as non-fatal: the book row is the source
	// of truth, the index entry can be rebuilt via sync.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrCompositionFailed signals a failed or timed-out LLM call. The search
	// orchestrator converts it into a degraded response, never a hard failure.
	ErrCompositionFailed = errors.New("answer composition failed")
	// ErrBookNotFound signals a missing book.
	ErrBookNotFound = errors.New("book not found")
)
