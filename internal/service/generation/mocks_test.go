package generation

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/domain/repositories"
	"interviewprep/internal/domain/services"
)

var _ repositories.GenerationLogRepository = &logRepoMock{}

// logRepoMock keeps logs in memory and records every call in order.
type logRepoMock struct {
	CreateFunc      func(ctx context.Context, ownerID uuid.UUID, prompt string) (uuid.UUID, error)
	MarkSuccessFunc func(ctx context.Context, id uuid.UUID, response json.RawMessage) error
	MarkErrorFunc   func(ctx context.Context, id uuid.UUID, details string) error

	mu    sync.Mutex
	logs  map[uuid.UUID]*models.GenerationLog
	calls []string
}

func newLogRepoMock() *logRepoMock {
	return &logRepoMock{logs: make(map[uuid.UUID]*models.GenerationLog)}
}

func (m *logRepoMock) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *logRepoMock) Create(ctx context.Context, ownerID uuid.UUID, prompt string) (uuid.UUID, error) {
	m.record("create")
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, prompt)
	}
	id := uuid.New()
	m.mu.Lock()
	m.logs[id] = &models.GenerationLog{ID: id, UserID: ownerID, Prompt: prompt, Status: models.GenerationPending}
	m.mu.Unlock()
	return id, nil
}

func (m *logRepoMock) MarkSuccess(ctx context.Context, id uuid.UUID, response json.RawMessage) error {
	m.record("mark_success")
	if m.MarkSuccessFunc != nil {
		return m.MarkSuccessFunc(ctx, id, response)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	log := m.logs[id]
	log.Status = models.GenerationSuccess
	log.Response = response
	return nil
}

func (m *logRepoMock) MarkError(ctx context.Context, id uuid.UUID, details string) error {
	m.record("mark_error")
	if m.MarkErrorFunc != nil {
		return m.MarkErrorFunc(ctx, id, details)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	log := m.logs[id]
	log.Status = models.GenerationError
	log.ErrorDetails = &details
	return nil
}

func (m *logRepoMock) FindOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.GenerationLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	log, ok := m.logs[id]
	if !ok || log.UserID != ownerID {
		return nil, nil
	}
	return log, nil
}

func (m *logRepoMock) only(t interface{ Fatalf(string, ...any) }) *models.GenerationLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.logs) != 1 {
		t.Fatalf("expected exactly one log row, got %d", len(m.logs))
	}
	for _, log := range m.logs {
		return log
	}
	return nil
}

var _ services.StructuredCompleter = &completerMock{}

type completerMock struct {
	CompleteStructuredFunc func(ctx context.Context, req *services.StructuredRequest, dest any) error
	onCall                 func()
}

func (m *completerMock) CompleteStructured(ctx context.Context, req *services.StructuredRequest, dest any) error {
	if m.onCall != nil {
		m.onCall()
	}
	if m.CompleteStructuredFunc == nil {
		panic("completerMock.CompleteStructuredFunc: method is nil but StructuredCompleter.CompleteStructured was just called")
	}
	return m.CompleteStructuredFunc(ctx, req, dest)
}

// respondWith decodes a canned JSON completion into dest.
func respondWith(content string) func(context.Context, *services.StructuredRequest, any) error {
	return func(_ context.Context, _ *services.StructuredRequest, dest any) error {
		return json.Unmarshal([]byte(content), dest)
	}
}
