package handler

import (
	"log/slog"
	"net/http"

	"interviewprep/internal/domain/models"
	"interviewprep/internal/domain/services"
	"interviewprep/internal/httputil"
	"interviewprep/internal/validation"
)

// QuestionHandler handles saved question HTTP requests
type QuestionHandler struct {
	service services.QuestionService
	logger  *slog.Logger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(service services.QuestionService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{
		service: service,
		logger:  logger,
	}
}

// SaveProposals commits selected AI proposals as questions
// POST /api/ai/save-questions
func (h *QuestionHandler) SaveProposals(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.SaveProposalsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.SaveProposals(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, resp)
}

// ListQuestions returns one page of the caller's questions
// GET /api/questions?page&page_size&sort_by&sort_order&search
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	query, err := validation.ListQuestionsQuery(r.URL.Query())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	page, err := h.service.ListQuestions(r.Context(), ownerID, query)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// CreateQuestion stores a user-authored question
// POST /api/questions
func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.CreateQuestionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	q, err := h.service.CreateQuestion(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, q)
}

// GetQuestion retrieves a question by ID
// GET /api/questions/{id}
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := validation.QuestionID(r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	q, err := h.service.GetQuestion(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, q)
}

// updateQuestionRequest distinguishes an absent answer from "answer": null.
type updateQuestionRequest struct {
	Question *string                 `json:"question"`
	Answer   httputil.OptionalString `json:"answer"`
}

// UpdateQuestion applies a partial update
// PATCH /api/questions/{id}
func (h *QuestionHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := validation.QuestionID(r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	var req updateQuestionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := &models.QuestionPatch{Question: req.Question}
	if req.Answer.Present {
		if req.Answer.Value == nil {
			patch.ClearAnswer = true
		} else {
			patch.Answer = req.Answer.Value
		}
	}

	q, err := h.service.UpdateQuestion(r.Context(), ownerID, id, patch)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, q)
}

// DeleteQuestion deletes a question
// DELETE /api/questions/{id}
func (h *QuestionHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := validation.QuestionID(r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.service.DeleteQuestion(r.Context(), ownerID, id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
