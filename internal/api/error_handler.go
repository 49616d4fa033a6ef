package api

import (
	"encoding/json"
	"net/http"

	"github.com/vytor/brainplay/internal/errors"
	"github.com/vytor/brainplay/internal/logger"
)

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		if errors.Is(err, errors.ErrInvalidTransition) {
			appErr = errors.NewConflictError("not allowed in the current session state", err)
		} else {
			appErr = errors.NewInternalError(err)
		}
	}

	// Log based on status code
	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
