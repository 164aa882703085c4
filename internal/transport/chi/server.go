package chi

import (
	"encoding/json"
	"fmt"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/domain/search/request"
	"github.com/kailas-cloud/storefront/internal/logger"
	"github.com/kailas-cloud/storefront/internal/metrics"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
	searchuc "github.com/kailas-cloud/storefront/internal/usecase/search"
)

// Server serves the storefront product API.
type Server struct {
	search *searchuc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// Options configure the router's cross-cutting middleware.
type Options struct {
	APIKeys        []string
	AllowedOrigins []string
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{search: search, health: health, logger: logger}
}

// Handler builds the chi router with the full middleware chain.
func (s *Server) Handler(opts Options) http.Handler {
	r := gochi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware())

	r.Post("/api/products", s.SearchProducts)
	r.Get("/api/products", s.ListProducts)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	return r
}

// SearchProducts handles POST /api/products.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	var body ProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, r, fmt.Errorf("decode body: %w", err))
		return
	}
	if body.Filter == nil {
		s.fail(w, r, fmt.Errorf("filter is required"))
		return
	}
	s.products(w, r, body.Filter)
}

// ListProducts handles GET /api/products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.products(w, r, &f)
}

func (s *Server) products(w http.ResponseWriter, r *http.Request, f *FilterBody) {
	req, err := request.New(f.Color, f.Size, f.Price, f.Sort)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	results, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	items := make([]ProductResult, len(results))
	for i := range results {
		items[i] = resultToDTO(&results[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// fail logs err and answers with the single opaque error the storefront understands.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Error("product query failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, internalErrorMessage)
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

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}
