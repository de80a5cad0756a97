// Package chi implements the HTTP transport: hand-written handlers on a chi
// router, one thin layer above the use case services.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bookdex-io/bookdex/internal/domain"
	cataloguc "github.com/bookdex-io/bookdex/internal/usecase/catalog"
	healthuc "github.com/bookdex-io/bookdex/internal/usecase/health"
)

// Searcher runs the search pipeline: retrieval plus answer composition.
type Searcher interface {
	Search(ctx context.Context, query string, k int, filter domain.Filter) (domain.Response, error)
}

// Cataloger reflects book lifecycle events into the vector index.
type Cataloger interface {
	Upsert(ctx context.Context, book *domain.Book) error
	Get(ctx context.Context, id string) (domain.Book, error)
	Delete(ctx context.Context, id string) error
	Sync(ctx context.Context, books []domain.Book) (cataloguc.SyncReport, error)
	Reset(ctx context.Context) error
}

// HealthChecker aggregates dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Error response codes.
const (
	codeBadRequest         = "bad_request"
	codeUnauthorized       = "unauthorized"
	codeInvalidQuery       = "invalid_query"
	codeBookNotFound       = "book_not_found"
	codeEncoderUnavailable = "encoder_unavailable"
	codeIndexUnavailable   = "index_unavailable"
	codeCompositionFailed  = "composition_failed"
	codeInternalError      = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	search        Searcher
	catalog       Cataloger
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, catalog Cataloger, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search:  search,
		catalog: catalog,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrBookNotFound, http.StatusNotFound, codeBookNotFound),
		sentinelHandler(domain.ErrEncoderUnavailable, http.StatusBadGateway, codeEncoderUnavailable),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable),
		sentinelHandler(domain.ErrCompositionFailed, http.StatusBadGateway, codeCompositionFailed),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/search", s.Search)
	r.Route("/books", func(r chi.Router) {
		r.Post("/sync", s.SyncBooks)
		r.Get("/{id}", s.GetBook)
		r.Put("/{id}", s.UpsertBook)
		r.Delete("/{id}", s.DeleteBook)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type filterRequest struct {
	Format        string `json:"format,omitempty"`
	ReadingStatus string `json:"reading_status,omitempty"`
	Category      string `json:"category,omitempty"`
	Mood          string `json:"mood,omitempty"`
}

type searchRequest struct {
	Query   string         `json:"query"`
	K       int            `json:"k,omitempty"`
	Filters *filterRequest `json:"filters,omitempty"`
}

type candidateResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author,omitempty"`
	Format        string   `json:"format,omitempty"`
	ReadingStatus string   `json:"reading_status,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Moods         []string `json:"moods,omitempty"`
	Similarity    float64  `json:"similarity"`
}

type searchResponse struct {
	Answer  string              `json:"answer"`
	Results []candidateResponse `json:"results"`
}

type bookRequest struct {
	Title         string   `json:"title"`
	Author        string   `json:"author,omitempty"`
	Description   string   `json:"description,omitempty"`
	Format        string   `json:"format,omitempty"`
	ReadingStatus string   `json:"reading_status,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Moods         []string `json:"moods,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

type upsertResponse struct {
	ID           string `json:"id"`
	IndexWarning string `json:"index_warning,omitempty"`
}

type syncBookRequest struct {
	ID string `json:"id"`
	bookRequest
}

type syncRequest struct {
	Books   []syncBookRequest `json:"books"`
	Reindex bool              `json:"reindex,omitempty"`
}

type syncResponse struct {
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
	Removed int `json:"removed"`
}

type bookResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author,omitempty"`
	Format        string   `json:"format,omitempty"`
	ReadingStatus string   `json:"reading_status,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Moods         []string `json:"moods,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	var filter domain.Filter
	if req.Filters != nil {
		filter = domain.Filter{
			Format:        req.Filters.Format,
			ReadingStatus: req.Filters.ReadingStatus,
			Category:      req.Filters.Category,
			Mood:          req.Filters.Mood,
		}
	}

	resp, err := s.search.Search(r.Context(), req.Query, req.K, filter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := searchResponse{
		Answer:  resp.Answer,
		Results: make([]candidateResponse, 0, len(resp.Results)),
	}
	for _, c := range resp.Results {
		out.Results = append(out.Results, candidateResponse{
			ID:            c.ID,
			Title:         c.Title,
			Author:        c.Author,
			Format:        c.Format,
			ReadingStatus: c.ReadingStatus,
			Categories:    c.Categories,
			Moods:         c.Moods,
			Similarity:    c.Similarity,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// UpsertBook handles PUT /books/{id}. The relational store is the source of
// truth for the book row, so an encoder or index failure does not fail the
// request: the book is saved without an index entry and the response carries
// an index_warning. A later sync rebuilds the entry.
func (s *Server) UpsertBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	book := bookFromRequest(id, req)
	err := s.catalog.Upsert(r.Context(), &book)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, upsertResponse{ID: id})
	case errors.Is(err, domain.ErrIndexUnavailable), errors.Is(err, domain.ErrEncoderUnavailable):
		s.logger.Warn("Book saved without index entry",
			zap.String("book_id", id),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, upsertResponse{ID: id, IndexWarning: safeDomainMessage(err)})
	default:
		s.handleDomainError(w, err)
	}
}

// GetBook handles GET /books/{id}: the indexed slice of a book, read back
// from its index entry. 404 means no entry, not necessarily no book.
func (s *Server) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookResponse{
		ID:            book.ID,
		Title:         book.Title,
		Author:        book.Author,
		Format:        book.Format,
		ReadingStatus: book.ReadingStatus,
		Categories:    book.Categories,
		Moods:         book.Moods,
	})
}

// DeleteBook handles DELETE /books/{id}.
func (s *Server) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SyncBooks handles POST /books/sync: a full backfill of the vector index
// from the caller-supplied catalog snapshot. With reindex set, the index is
// dropped and recreated first (after a schema change, e.g. new embedding
// dimensions).
func (s *Server) SyncBooks(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Reindex {
		if err := s.catalog.Reset(r.Context()); err != nil {
			s.handleDomainError(w, err)
			return
		}
	}

	books := make([]domain.Book, 0, len(req.Books))
	for _, b := range req.Books {
		books = append(books, bookFromRequest(b.ID, b.bookRequest))
	}

	report, err := s.catalog.Sync(r.Context(), books)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{
		Indexed: report.Indexed,
		Skipped: report.Skipped,
		Failed:  report.Failed,
		Removed: report.Removed,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func bookFromRequest(id string, req bookRequest) domain.Book {
	return domain.Book{
		ID:            id,
		Title:         req.Title,
		Author:        req.Author,
		Description:   req.Description,
		Format:        req.Format,
		ReadingStatus: req.ReadingStatus,
		Categories:    req.Categories,
		Moods:         req.Moods,
		Notes:         req.Notes,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrBookNotFound,
		domain.ErrEncoderUnavailable,
		domain.ErrIndexUnavailable,
		domain.ErrCompositionFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
