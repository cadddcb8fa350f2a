package services

import (
	"context"

	"github.com/google/uuid"
	"interviewprep/internal/domain/models"
)

// GenerateQuestionsRequest carries the user's source material.
type GenerateQuestionsRequest struct {
	SourceText string `json:"source_text"`
}

// GenerationService turns source text into question proposals and logs every attempt.
type GenerationService interface {
	Generate(ctx context.Context, ownerID uuid.UUID, req *GenerateQuestionsRequest) (*models.GenerationResult, error)
}
