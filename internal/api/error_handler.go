package api

import (
	"net/http"

	"github.com/vytor/chessactivity/internal/errors"
	"github.com/vytor/chessactivity/internal/logger"
)

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr := errors.AsAppError(err)

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	body := errorBody(appErr.Code, appErr.Message)
	if appErr.Detail != "" {
		body["error"].(map[string]any)["detail"] = appErr.Detail
	}
	writeJSON(w, appErr.Status, body)
}
