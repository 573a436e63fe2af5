package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pagelens/internal/domain"
	"pagelens/internal/http/handlers"
	"pagelens/internal/http/middleware"
)

type Router struct {
	mux             *http.ServeMux
	healthHandler   *handlers.HealthHandler
	metadataHandler *handlers.MetadataHandler
}

func NewRouter(logger *slog.Logger, fetcher handlers.MetadataFetcher, defaults domain.FetchOptions) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		healthHandler:   handlers.NewHealthHandler(logger),
		metadataHandler: handlers.NewMetadataHandler(logger, fetcher, defaults),
	}
}

// AddHealthChecker registers a dependency for the health endpoint
func (r *Router) AddHealthChecker(name string, checker handlers.HealthChecker) {
	r.healthHandler.AddChecker(name, checker)
}

func (r *Router) SetupRoutes() http.Handler {
	// Health check
	r.mux.HandleFunc("GET /health", r.healthHandler.HandleHealth)

	// Prometheus metrics
	r.mux.Handle("GET /metrics", promhttp.Handler())

	// API v1 routes - metadata extraction
	r.mux.HandleFunc("POST /api/v1/metadata", r.metadataHandler.FetchMetadata)

	// Add CORS middleware
	return middleware.CORS(r.mux)
}
