package api

import (
	"context"
	"net/http"

	"github.com/vytor/chessactivity/internal/logger"
)

// ReadinessChecker reports whether a dependency can serve traffic.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// handleHealth returns a liveness probe - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "OK")
}

// handleReady returns 200 when the archive cache database answers, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if s.DB != nil {
		if err := s.DB.Ready(r.Context()); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			writeText(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}
	writeText(w, http.StatusOK, "Ready")
}
