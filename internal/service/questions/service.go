// Package questions manages a user's saved questions, including committing
// AI proposals selected from a generation attempt.
package questions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"interviewprep/internal/domain"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/domain/repositories"
	"interviewprep/internal/domain/services"
	"interviewprep/internal/validation"
)

// Service implements services.QuestionService.
type Service struct {
	questions repositories.QuestionRepository
	logs      repositories.GenerationLogRepository
	tx        repositories.TransactionManager
	logger    *slog.Logger
}

// NewService creates a new question service
func NewService(
	questions repositories.QuestionRepository,
	logs repositories.GenerationLogRepository,
	tx repositories.TransactionManager,
	logger *slog.Logger,
) services.QuestionService {
	return &Service{
		questions: questions,
		logs:      logs,
		tx:        tx,
		logger:    logger,
	}
}

// SaveProposals checks that the generation log belongs to the owner, then
// inserts one question per selection in a single batch.
func (s *Service) SaveProposals(ctx context.Context, ownerID uuid.UUID, req *services.SaveProposalsRequest) (*services.SaveProposalsResponse, error) {
	if err := validation.SaveProposals(req); err != nil {
		return nil, err
	}
	logID, err := uuid.Parse(req.GenerationLogID)
	if err != nil {
		return nil, domain.NewValidationError("generation_log_id", "must be a valid UUID")
	}

	rows := make([]models.Question, len(req.Questions))
	for i, sel := range req.Questions {
		source := models.SourceAI
		if sel.Edited != nil && *sel.Edited {
			source = models.SourceAIEdited
		}
		rows[i] = models.Question{
			UserID:          ownerID,
			Question:        sel.Question,
			Answer:          sel.Answer,
			Source:          source,
			GenerationLogID: &logID,
		}
	}

	var ids []uuid.UUID
	err = s.tx.ExecTx(ctx, func(ctx context.Context) error {
		log, err := s.logs.FindOwned(ctx, logID, ownerID)
		if err != nil {
			return fmt.Errorf("find generation log: %w", err)
		}
		if log == nil {
			return &domain.NotFoundError{Message: "generation log not found or not owned by caller"}
		}

		ids, err = s.questions.BulkInsert(ctx, rows)
		if err != nil {
			return &domain.PersistenceError{Op: "failed to save questions to the database", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("proposals saved",
		"user_id", ownerID,
		"generation_log_id", logID,
		"count", len(ids),
	)
	return &services.SaveProposalsResponse{SavedQuestionIDs: ids}, nil
}

// CreateQuestion stores a user-authored question.
func (s *Service) CreateQuestion(ctx context.Context, ownerID uuid.UUID, req *services.CreateQuestionRequest) (*models.Question, error) {
	if err := validation.CreateQuestion(req); err != nil {
		return nil, err
	}

	q := &models.Question{
		UserID:   ownerID,
		Question: req.Question,
		Answer:   req.Answer,
		Source:   models.SourceUser,
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	s.logger.Info("question created", "id", q.ID, "user_id", ownerID)
	return q, nil
}

// GetQuestion returns one of the owner's questions.
func (s *Service) GetQuestion(ctx context.Context, ownerID, id uuid.UUID) (*models.Question, error) {
	q, err := s.questions.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, &domain.NotFoundError{Message: "question not found"}
	}
	return q, nil
}

// ListQuestions returns one page of the owner's questions.
func (s *Service) ListQuestions(ctx context.Context, ownerID uuid.UUID, query models.ListQuestionsQuery) (*models.QuestionPage, error) {
	items, total, err := s.questions.List(ctx, ownerID, query)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Question{}
	}
	return &models.QuestionPage{
		Data:       items,
		Pagination: models.NewPagination(query.Page, query.PageSize, total),
	}, nil
}

// UpdateQuestion applies a partial update. Values are stored as sent; only
// ClearAnswer sets the answer to NULL.
func (s *Service) UpdateQuestion(ctx context.Context, ownerID, id uuid.UUID, patch *models.QuestionPatch) (*models.Question, error) {
	if err := validation.UpdateQuestion(patch); err != nil {
		return nil, err
	}

	q, err := s.questions.UpdateOwned(ctx, id, ownerID, patch)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "failed to update the question", Err: err}
	}
	if q == nil {
		return nil, &domain.PersistenceError{
			Op:  "failed to update the question",
			Err: fmt.Errorf("question %s: %w", id, domain.ErrNotFound),
		}
	}

	s.logger.Info("question updated", "id", id, "user_id", ownerID)
	return q, nil
}

// DeleteQuestion removes the question. Deleting a missing question succeeds.
func (s *Service) DeleteQuestion(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.questions.DeleteOwned(ctx, id, ownerID); err != nil {
		return &domain.PersistenceError{Op: "failed to delete the question", Err: err}
	}
	s.logger.Info("question deleted", "id", id, "user_id", ownerID)
	return nil
}
