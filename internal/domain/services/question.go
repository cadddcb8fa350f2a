package services

import (
	"context"

	"github.com/google/uuid"
	"interviewprep/internal/domain/models"
)

// SaveProposalsRequest is the batch of selected proposals from one generation.
type SaveProposalsRequest struct {
	GenerationLogID string              `json:"generation_log_id"`
	Questions       []ProposalSelection `json:"questions"`
}

// ProposalSelection is a single proposal as submitted by the client.
type ProposalSelection struct {
	Question string  `json:"question"`
	Answer   *string `json:"answer"`
	Edited   *bool   `json:"edited"`
}

// SaveProposalsResponse lists the ids of the inserted questions in input order.
type SaveProposalsResponse struct {
	SavedQuestionIDs []uuid.UUID `json:"saved_question_ids"`
}

// CreateQuestionRequest creates a user-authored question.
type CreateQuestionRequest struct {
	Question string  `json:"question"`
	Answer   *string `json:"answer"`
}

// QuestionService manages a user's question list.
type QuestionService interface {
	SaveProposals(ctx context.Context, ownerID uuid.UUID, req *SaveProposalsRequest) (*SaveProposalsResponse, error)
	CreateQuestion(ctx context.Context, ownerID uuid.UUID, req *CreateQuestionRequest) (*models.Question, error)
	GetQuestion(ctx context.Context, ownerID, id uuid.UUID) (*models.Question, error)
	ListQuestions(ctx context.Context, ownerID uuid.UUID, query models.ListQuestionsQuery) (*models.QuestionPage, error)
	UpdateQuestion(ctx context.Context, ownerID, id uuid.UUID, patch *models.QuestionPatch) (*models.Question, error)
	DeleteQuestion(ctx context.Context, ownerID, id uuid.UUID) error
}
