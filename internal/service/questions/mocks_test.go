package questions

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/domain/repositories"
)

var _ repositories.QuestionRepository = &questionRepoMock{}

type questionRepoMock struct {
	CreateFunc      func(ctx context.Context, q *models.Question) error
	BulkInsertFunc  func(ctx context.Context, rows []models.Question) ([]uuid.UUID, error)
	GetOwnedFunc    func(ctx context.Context, id, ownerID uuid.UUID) (*models.Question, error)
	ListFunc        func(ctx context.Context, ownerID uuid.UUID, query models.ListQuestionsQuery) ([]models.Question, int, error)
	UpdateOwnedFunc func(ctx context.Context, id, ownerID uuid.UUID, patch *models.QuestionPatch) (*models.Question, error)
	DeleteOwnedFunc func(ctx context.Context, id, ownerID uuid.UUID) error
}

func (m *questionRepoMock) Create(ctx context.Context, q *models.Question) error {
	if m.CreateFunc == nil {
		panic("questionRepoMock.CreateFunc: method is nil but QuestionRepository.Create was just called")
	}
	return m.CreateFunc(ctx, q)
}

func (m *questionRepoMock) BulkInsert(ctx context.Context, rows []models.Question) ([]uuid.UUID, error) {
	if m.BulkInsertFunc == nil {
		panic("questionRepoMock.BulkInsertFunc: method is nil but QuestionRepository.BulkInsert was just called")
	}
	return m.BulkInsertFunc(ctx, rows)
}

func (m *questionRepoMock) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Question, error) {
	if m.GetOwnedFunc == nil {
		panic("questionRepoMock.GetOwnedFunc: method is nil but QuestionRepository.GetOwned was just called")
	}
	return m.GetOwnedFunc(ctx, id, ownerID)
}

func (m *questionRepoMock) List(ctx context.Context, ownerID uuid.UUID, query models.ListQuestionsQuery) ([]models.Question, int, error) {
	if m.ListFunc == nil {
		panic("questionRepoMock.ListFunc: method is nil but QuestionRepository.List was just called")
	}
	return m.ListFunc(ctx, ownerID, query)
}

func (m *questionRepoMock) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, patch *models.QuestionPatch) (*models.Question, error) {
	if m.UpdateOwnedFunc == nil {
		panic("questionRepoMock.UpdateOwnedFunc: method is nil but QuestionRepository.UpdateOwned was just called")
	}
	return m.UpdateOwnedFunc(ctx, id, ownerID, patch)
}

func (m *questionRepoMock) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	if m.DeleteOwnedFunc == nil {
		panic("questionRepoMock.DeleteOwnedFunc: method is nil but QuestionRepository.DeleteOwned was just called")
	}
	return m.DeleteOwnedFunc(ctx, id, ownerID)
}

var _ repositories.GenerationLogRepository = &logRepoMock{}

type logRepoMock struct {
	FindOwnedFunc func(ctx context.Context, id, ownerID uuid.UUID) (*models.GenerationLog, error)
}

func (m *logRepoMock) Create(context.Context, uuid.UUID, string) (uuid.UUID, error) {
	panic("logRepoMock.Create: not expected")
}

func (m *logRepoMock) MarkSuccess(context.Context, uuid.UUID, json.RawMessage) error {
	panic("logRepoMock.MarkSuccess: not expected")
}

func (m *logRepoMock) MarkError(context.Context, uuid.UUID, string) error {
	panic("logRepoMock.MarkError: not expected")
}

func (m *logRepoMock) FindOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.GenerationLog, error) {
	if m.FindOwnedFunc == nil {
		panic("logRepoMock.FindOwnedFunc: method is nil but GenerationLogRepository.FindOwned was just called")
	}
	return m.FindOwnedFunc(ctx, id, ownerID)
}

// txPassthrough runs the function without a real transaction.
type txPassthrough struct{ calls int }

func (t *txPassthrough) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	t.calls++
	return fn(ctx)
}
