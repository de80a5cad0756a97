package health

import "context"

// StorePinger checks vector store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// EncoderChecker checks embedding provider availability.
type EncoderChecker interface {
	HealthCheck(ctx context.Context) error
}
