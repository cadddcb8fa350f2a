package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"interviewprep/internal/auth"
	"interviewprep/internal/domain"
	"interviewprep/internal/httputil"
	"interviewprep/internal/llm/openrouter"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	writeError(w, logger, err, http.StatusBadRequest)
}

// writeError responds with the status of the outermost HTTPError in err's
// chain. Validation failures use validationStatus.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error, validationStatus int) {
	var httpErr domain.HTTPError
	if !errors.As(err, &httpErr) {
		if errors.Is(err, domain.ErrUnauthorized) {
			httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := httpErr.StatusCode()
	detail := httpErr.Error()
	extras := map[string]any{}

	switch e := httpErr.(type) {
	case *domain.ValidationError:
		status = validationStatus
		detail = e.Message
		if len(e.Fields) > 0 {
			extras["fields"] = e.Fields
		}
	case *domain.PersistenceError:
		// Op is the public message; the cause stays in the log.
		detail = e.Op
		logger.Warn("persistence failed", "op", e.Op, "error", e.Err)
	case *domain.GenerationError:
		detail = "failed to generate questions"
		var upstream *openrouter.Error
		if errors.As(e.Cause, &upstream) {
			detail += ": " + upstream.Message
		}
		extras["generation_log_id"] = e.LogID
	case *domain.UnauthorizedError:
		if e.Code != "" {
			extras["code"] = e.Code
		}
	case *domain.ConflictError:
		if e.Code != "" {
			extras["code"] = e.Code
		}
	case *auth.AuthError:
		if e.Code != "" {
			extras["code"] = e.Code
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	}
	httputil.RespondErrorWithExtras(w, status, detail, extras)
}

// requireUserID returns the authenticated caller's id, or writes 401.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(httputil.GetUserID(r))
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	return id, true
}
