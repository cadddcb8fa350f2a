package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"interviewprep/internal/domain"
	"interviewprep/internal/domain/services"
	"interviewprep/internal/httputil"
)

// GenerationHandler handles AI question generation requests
type GenerationHandler struct {
	service services.GenerationService
	logger  *slog.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(service services.GenerationService, logger *slog.Logger) *GenerationHandler {
	return &GenerationHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateQuestions proposes interview questions for the submitted text
// POST /api/ai/generate-questions
func (h *GenerationHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.GenerateQuestionsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Generate(r.Context(), ownerID, &req)
	if err != nil {
		// A failed log write is a server fault here, not a client one.
		var verr *domain.ValidationError
		var gerr *domain.GenerationError
		if errors.As(err, &verr) || errors.As(err, &gerr) {
			handleError(w, h.logger, err)
			return
		}
		h.logger.Error("generate questions", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
