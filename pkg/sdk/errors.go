package bookdex

import "github.com/bookdex-io/bookdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery       = domain.ErrInvalidQuery
	ErrEncoderUnavailable = domain.ErrEncoderUnavailable
	ErrIndexUnavailable   = domain.ErrIndexUnavailable
	ErrCompositionFailed  = domain.ErrCompositionFailed
	ErrBookNotFound       = domain.ErrBookNotFound
)
