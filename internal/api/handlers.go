package api

import (
	stderrors "errors"
	"net/http"

	"github.com/vytor/chessactivity/internal/jobs"
	"github.com/vytor/chessactivity/internal/logger"
	"github.com/vytor/chessactivity/internal/period"
	"github.com/vytor/chessactivity/internal/render"
	"github.com/vytor/chessactivity/internal/services"
	"github.com/vytor/chessactivity/internal/worker"
)

type Server struct {
	ActivityService services.ActivityService
	Jobs            jobs.JobQueue
	DB              ReadinessChecker
}

type activityResponse struct {
	*services.ActivityReport
	Description string `json:"description"`
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	username := usernameParam(r)
	periodExpr := r.URL.Query().Get("period")
	log.Debug("activity requested: username=%s, period=%q", username, periodExpr)

	report, err := s.ActivityService.Analyze(r.Context(), username, periodExpr)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		writeText(w, http.StatusOK, textReport(report, r.URL.Query().Get("chart") == "true"))
		return
	}

	writeJSON(w, http.StatusOK, activityResponse{
		ActivityReport: report,
		Description:    render.PeriodDescription(report.Range, report.AsOf),
	})
}

func textReport(report *services.ActivityReport, chart bool) string {
	if !report.GamesFound {
		return "No games found for user '" + report.Username + "' in the specified period.\n"
	}
	out := render.Report(report.Username, report.Range, report.AsOf, report.Metrics)
	if chart {
		out += "\n" + render.HourlyChart(report.Hourly)
	}
	return out
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	username, err := services.NormalizeUsername(usernameParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	periodExpr := r.URL.Query().Get("period")
	if periodExpr != "" {
		if _, err := period.Parse(periodExpr); err != nil {
			handleError(w, r, err)
			return
		}
	}

	if err := s.Jobs.EnqueueSync(username, periodExpr); err != nil {
		if stderrors.Is(err, worker.ErrQueueFull) {
			log.Warn("sync queue full, rejecting username=%s", username)
			writeJSON(w, http.StatusServiceUnavailable, errorBody("QUEUE_FULL", "sync queue is full, try again later"))
			return
		}
		handleError(w, r, err)
		return
	}

	log.Info("queued sync: username=%s, period=%q", username, periodExpr)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":   "queued",
		"username": username,
		"period":   periodExpr,
	})
}

func (s *Server) handleCachedMonths(w http.ResponseWriter, r *http.Request) {
	months, err := s.ActivityService.CachedMonths(r.Context(), usernameParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": months})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	n, err := s.ActivityService.InvalidateUser(r.Context(), usernameParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("cleared %d cached months", n)
	w.WriteHeader(http.StatusNoContent)
}
