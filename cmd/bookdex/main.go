package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bookdex-io/bookdex/internal/config"
	dbRedis "github.com/bookdex-io/bookdex/internal/db/redis"
	"github.com/bookdex-io/bookdex/internal/domain"
	logpkg "github.com/bookdex-io/bookdex/internal/logger"
	"github.com/bookdex-io/bookdex/internal/metrics"
	"github.com/bookdex-io/bookdex/internal/repository/embcache"
	indexrepo "github.com/bookdex-io/bookdex/internal/repository/index"
	chiTransport "github.com/bookdex-io/bookdex/internal/transport/chi"
	"github.com/bookdex-io/bookdex/internal/transport/groqllm"
	openaiEmb "github.com/bookdex-io/bookdex/internal/transport/openai"
	answeruc "github.com/bookdex-io/bookdex/internal/usecase/answer"
	cataloguc "github.com/bookdex-io/bookdex/internal/usecase/catalog"
	embeddinguc "github.com/bookdex-io/bookdex/internal/usecase/embedding"
	healthuc "github.com/bookdex-io/bookdex/internal/usecase/health"
	retrievaluc "github.com/bookdex-io/bookdex/internal/usecase/retrieval"
	searchuc "github.com/bookdex-io/bookdex/internal/usecase/search"
	"github.com/bookdex-io/bookdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting bookdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterLLMMetrics()

	// Vector index repository — creates the HNSW index on first boot
	indexRepo := indexrepo.New(store, indexrepo.Options{
		KeyPrefix:       cfg.Storage.KeyPrefix,
		Dimensions:      cfg.Embedding.Dimensions,
		HNSWM:           cfg.Index.HNSWM,
		HNSWEFConstruct: cfg.Index.HNSWEFConstruct,
	})
	if err := indexRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure vector index", zap.Error(err))
	}

	// Embedder chain: OpenAI-compatible provider -> cache -> instrumented
	baseEmbedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:       cfg.Embedding.APIKey,
		BaseURL:      cfg.Embedding.BaseURL,
		Model:        cfg.Embedding.Model,
		Dimensions:   cfg.Embedding.Dimensions,
		MaxTextChars: cfg.Embedding.MaxTextChars,
		Logger:       logger,
	})

	var embedder domain.Embedder = baseEmbedder
	if *cfg.Embedding.CacheEnabled {
		embedder = embcache.New(baseEmbedder, store, cfg.Storage.KeyPrefix, metrics.EmbeddingCacheTotal, logger)
	}
	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Embedding.Model, logger)

	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", *cfg.Embedding.CacheEnabled),
	)

	// Answer composition LLM client
	llm := groqllm.New(&groqllm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Logger:      logger,
	})

	// Use case services
	catalogSvc := cataloguc.New(embedder, indexRepo, logger)
	retrievalSvc := retrievaluc.New(embedder, indexRepo, cfg.Search.DefaultTopK, cfg.Search.MaxTopK)
	answerSvc := answeruc.New(llm, cfg.Search.MaxContextBooks)
	searchSvc := searchuc.New(retrievalSvc, answerSvc, cfg.Search.FallbackAnswer, logger)
	healthSvc := healthuc.New(store, baseEmbedder)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, catalogSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
