package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vytor/chessactivity/internal/metrics"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(metrics.Middleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/players/{username}", func(r chi.Router) {
		r.Get("/activity", s.handleActivity)
		r.Post("/sync", s.handleSync)
		r.Get("/cache", s.handleCachedMonths)
		r.Delete("/cache", s.handleClearCache)
	})
	return r
}
