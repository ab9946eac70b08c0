package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterConfig carries the dependencies of the HTTP surface.
type RouterConfig struct {
	Log             zerolog.Logger
	APIKey          string
	Enqueuer        Enqueuer
	ServiceName     string
	EmailConfigured func() bool
	MaxBodyBytes    int64
	AllowedOrigins  []string
}

// NewRouter creates a chi.Mux with all routes, middleware, and handlers
// configured. /health and /metrics bypass the API key gate; everything else
// requires the shared secret.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CorrelationIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))
	r.Use(RecoverMiddleware(cfg.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", APIKeyHeader},
		MaxAge:         300,
	}))
	r.Use(APIKeyMiddleware(cfg.APIKey))

	r.Get("/health", HealthHandler(cfg.ServiceName, cfg.EmailConfigured))
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/send-invoice", SendInvoiceHandler(cfg.Enqueuer, cfg.MaxBodyBytes, cfg.Log))

	notFound := func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusNotFound,
			"Ruta no encontrada",
			fmt.Sprintf("La ruta %s %s no existe", req.Method, req.URL.Path))
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}
