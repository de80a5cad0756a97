package bookdex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	embedder  Embedder
	completer Completer

	keyPrefix        string
	vectorDimensions int
	hnswM            int
	hnswEFConstruct  int

	defaultTopK     int
	maxTopK         int
	maxContextBooks int
	fallbackAnswer  string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder sets the text embedding provider. Required for indexing
// and search.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithCompleter sets the answer composition model. Without it, Search
// returns the fallback answer alongside the retrieved candidates.
func WithCompleter(llm Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.completer = llm
	})
}

// WithKeyPrefix sets the Redis key prefix. Default: "bookdex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithVectorDimensions sets the embedding dimensionality.
// Defaults to 384 (all-MiniLM-L6-v2 class models).
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
// Defaults: M=16, EFConstruct=200.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithTopK sets the default and maximum number of retrieved candidates.
// Defaults: 10 and 50.
func WithTopK(defaultK, maxK int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultTopK = defaultK
		c.maxTopK = maxK
	})
}

// WithMaxContextBooks caps how many candidates are included in the LLM
// prompt. Default: 10.
func WithMaxContextBooks(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxContextBooks = n
	})
}

// WithFallbackAnswer sets the answer returned when composition fails or
// no Completer is configured.
func WithFallbackAnswer(answer string) Option {
	return optionFunc(func(c *clientConfig) {
		c.fallbackAnswer = answer
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
