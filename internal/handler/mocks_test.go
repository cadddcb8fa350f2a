package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/domain/services"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type generationServiceMock struct {
	GenerateFunc func(ctx context.Context, ownerID uuid.UUID, req *services.GenerateQuestionsRequest) (*models.GenerationResult, error)
}

func (m *generationServiceMock) Generate(ctx context.Context, ownerID uuid.UUID, req *services.GenerateQuestionsRequest) (*models.GenerationResult, error) {
	return m.GenerateFunc(ctx, ownerID, req)
}

type questionServiceMock struct {
	SaveProposalsFunc  func(ctx context.Context, ownerID uuid.UUID, req *services.SaveProposalsRequest) (*services.SaveProposalsResponse, error)
	CreateQuestionFunc func(ctx context.Context, ownerID uuid.UUID, req *services.CreateQuestionRequest) (*models.Question, error)
	GetQuestionFunc    func(ctx context.Context, ownerID, id uuid.UUID) (*models.Question, error)
	ListQuestionsFunc  func(ctx context.Context, ownerID uuid.UUID, query models.ListQuestionsQuery) (*models.QuestionPage, error)
	UpdateQuestionFunc func(ctx context.Context, ownerID, id uuid.UUID, patch *models.QuestionPatch) (*models.Question, error)
	DeleteQuestionFunc func(ctx context.Context, ownerID, id uuid.UUID) error
}

func (m *questionServiceMock) SaveProposals(ctx context.Context, ownerID uuid.UUID, req *services.SaveProposalsRequest) (*services.SaveProposalsResponse, error) {
	return m.SaveProposalsFunc(ctx, ownerID, req)
}

func (m *questionServiceMock) CreateQuestion(ctx context.Context, ownerID uuid.UUID, req *services.CreateQuestionRequest) (*models.Question, error) {
	return m.CreateQuestionFunc(ctx, ownerID, req)
}

func (m *questionServiceMock) GetQuestion(ctx context.Context, ownerID, id uuid.UUID) (*models.Question, error) {
	return m.GetQuestionFunc(ctx, ownerID, id)
}

func (m *questionServiceMock) ListQuestions(ctx context.Context, ownerID uuid.UUID, query models.ListQuestionsQuery) (*models.QuestionPage, error) {
	return m.ListQuestionsFunc(ctx, ownerID, query)
}

func (m *questionServiceMock) UpdateQuestion(ctx context.Context, ownerID, id uuid.UUID, patch *models.QuestionPatch) (*models.Question, error) {
	return m.UpdateQuestionFunc(ctx, ownerID, id, patch)
}

func (m *questionServiceMock) DeleteQuestion(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.DeleteQuestionFunc(ctx, ownerID, id)
}

type accountServiceMock struct {
	LoginFunc                func(ctx context.Context, creds *services.Credentials) (*models.AuthSession, error)
	SignUpFunc               func(ctx context.Context, creds *services.Credentials) (*services.SignUpResult, error)
	RequestPasswordResetFunc func(ctx context.Context, req *services.PasswordResetRequest) (string, error)
	ExchangeCodeFunc         func(ctx context.Context, code, codeVerifier string) (*models.AuthSession, error)
	UpdatePasswordFunc       func(ctx context.Context, req *services.PasswordUpdateRequest, codeVerifier string) (*models.AuthSession, error)
	RefreshFunc              func(ctx context.Context, refreshToken string) (*models.AuthSession, error)
	LogoutFunc               func(ctx context.Context, accessToken string) error
}

func (m *accountServiceMock) Login(ctx context.Context, creds *services.Credentials) (*models.AuthSession, error) {
	return m.LoginFunc(ctx, creds)
}

func (m *accountServiceMock) SignUp(ctx context.Context, creds *services.Credentials) (*services.SignUpResult, error) {
	return m.SignUpFunc(ctx, creds)
}

func (m *accountServiceMock) RequestPasswordReset(ctx context.Context, req *services.PasswordResetRequest) (string, error) {
	return m.RequestPasswordResetFunc(ctx, req)
}

func (m *accountServiceMock) ExchangeCode(ctx context.Context, code, codeVerifier string) (*models.AuthSession, error) {
	return m.ExchangeCodeFunc(ctx, code, codeVerifier)
}

func (m *accountServiceMock) UpdatePassword(ctx context.Context, req *services.PasswordUpdateRequest, codeVerifier string) (*models.AuthSession, error) {
	return m.UpdatePasswordFunc(ctx, req, codeVerifier)
}

func (m *accountServiceMock) Refresh(ctx context.Context, refreshToken string) (*models.AuthSession, error) {
	return m.RefreshFunc(ctx, refreshToken)
}

func (m *accountServiceMock) Logout(ctx context.Context, accessToken string) error {
	return m.LogoutFunc(ctx, accessToken)
}
