package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"interviewprep/internal/domain/models"
)

// GenerationLogRepository persists generation attempts.
type GenerationLogRepository interface {
	// Create inserts a pending log for the owner and returns its id.
	Create(ctx context.Context, ownerID uuid.UUID, prompt string) (uuid.UUID, error)

	// MarkSuccess moves a pending log to success and stores the response payload.
	MarkSuccess(ctx context.Context, id uuid.UUID, response json.RawMessage) error

	// MarkError moves a pending log to error and stores the failure message.
	MarkError(ctx context.Context, id uuid.UUID, details string) error

	// FindOwned returns the log only when it belongs to ownerID.
	// Returns nil, nil when no such row exists.
	FindOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.GenerationLog, error)
}
