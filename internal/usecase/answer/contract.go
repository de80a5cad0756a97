package answer

import "context"

// Completer runs one chat completion against the hosted model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
