package repositories

import (
	"context"

	"github.com/google/uuid"
	"interviewprep/internal/domain/models"
)

// QuestionRepository persists questions. Every read and write is scoped to an owner.
type QuestionRepository interface {
	// Create inserts one question and fills in its generated fields.
	Create(ctx context.Context, q *models.Question) error

	// BulkInsert inserts all rows in one statement and returns their ids in input order.
	BulkInsert(ctx context.Context, rows []models.Question) ([]uuid.UUID, error)

	// GetOwned returns nil, nil when the question does not exist for the owner.
	GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Question, error)

	// List returns one page of the owner's questions and the total match count.
	List(ctx context.Context, ownerID uuid.UUID, query models.ListQuestionsQuery) ([]models.Question, int, error)

	// UpdateOwned applies the patch and returns the updated row.
	// Returns nil, nil when no row matched.
	UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, patch *models.QuestionPatch) (*models.Question, error)

	// DeleteOwned removes the row. Deleting a missing row is not an error.
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
}
