package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"interviewprep/internal/domain"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/domain/services"
	"interviewprep/internal/httputil"
	"interviewprep/internal/llm/openrouter"
)

var testOwner = uuid.MustParse("7d3c9a5e-1111-4a2b-9c3d-000000000001")

// serve routes one request through a mux so path values resolve.
func serve(pattern string, h http.HandlerFunc, r *http.Request, authenticated bool) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	if authenticated {
		r = httputil.WithUserID(r, testOwner.String())
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGenerateQuestionsStatusMapping(t *testing.T) {
	logID := uuid.New()
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"success", `{"source_text":"Senior backend role, Go, Postgres"}`, nil, http.StatusOK},
		{"malformed json", `{"source_text":`, nil, http.StatusBadRequest},
		{"validation", `{"source_text":""}`, domain.NewValidationError("source_text", "source text is required"), http.StatusBadRequest},
		{"upstream failure", `{"source_text":"x"}`, &domain.GenerationError{LogID: logID, Cause: &openrouter.Error{Kind: openrouter.KindUnavailable, Message: "OpenRouter API request timed out after 30s"}}, http.StatusBadGateway},
		{"other failure", `{"source_text":"x"}`, errors.New("pool closed"), http.StatusInternalServerError},
		{"log write failure", `{"source_text":"x"}`, &domain.PersistenceError{Op: "create generation log", Err: errors.New("pool closed")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &generationServiceMock{
				GenerateFunc: func(_ context.Context, ownerID uuid.UUID, req *services.GenerateQuestionsRequest) (*models.GenerationResult, error) {
					assert.Equal(t, testOwner, ownerID)
					if tt.err != nil {
						return nil, tt.err
					}
					return &models.GenerationResult{
						GenerationLogID:   logID,
						QuestionProposals: []models.QuestionProposal{{Question: "What is MVCC?"}},
					}, nil
				},
			}
			h := NewGenerationHandler(svc, discardLogger())

			r := httptest.NewRequest(http.MethodPost, "/api/ai/generate-questions", strings.NewReader(tt.body))
			rec := serve("POST /api/ai/generate-questions", h.GenerateQuestions, r, true)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusBadGateway {
				body := decodeProblem(t, rec)
				assert.Equal(t, logID.String(), body["generation_log_id"])
				assert.Contains(t, body["error"], "timed out")
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "pool closed")
			}
		})
	}
}

func TestGenerateQuestionsRequiresUser(t *testing.T) {
	h := NewGenerationHandler(&generationServiceMock{}, discardLogger())
	r := httptest.NewRequest(http.MethodPost, "/api/ai/generate-questions", strings.NewReader(`{}`))
	rec := serve("POST /api/ai/generate-questions", h.GenerateQuestions, r, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaveProposalsStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"created", nil, http.StatusCreated, ""},
		{"foreign log", &domain.NotFoundError{Message: "generation log not found or not owned by caller"}, http.StatusNotFound, "generation log not found or not owned by caller"},
		{"persistence", &domain.PersistenceError{Op: "failed to save questions to the database", Err: errors.New("23514")}, http.StatusUnprocessableEntity, "failed to save questions to the database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &questionServiceMock{
				SaveProposalsFunc: func(context.Context, uuid.UUID, *services.SaveProposalsRequest) (*services.SaveProposalsResponse, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &services.SaveProposalsResponse{SavedQuestionIDs: []uuid.UUID{uuid.New()}}, nil
				},
			}
			h := NewQuestionHandler(svc, discardLogger())

			body := `{"generation_log_id":"` + uuid.NewString() + `","questions":[{"question":"Q?","edited":false}]}`
			r := httptest.NewRequest(http.MethodPost, "/api/ai/save-questions", strings.NewReader(body))
			rec := serve("POST /api/ai/save-questions", h.SaveProposals, r, true)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeProblem(t, rec)["error"])
				assert.NotContains(t, rec.Body.String(), "23514")
			}
		})
	}
}

func TestListQuestions(t *testing.T) {
	var got models.ListQuestionsQuery
	svc := &questionServiceMock{
		ListQuestionsFunc: func(_ context.Context, _ uuid.UUID, q models.ListQuestionsQuery) (*models.QuestionPage, error) {
			got = q
			return &models.QuestionPage{Data: []models.Question{}, Pagination: models.NewPagination(q.Page, q.PageSize, 0)}, nil
		},
	}
	h := NewQuestionHandler(svc, discardLogger())

	r := httptest.NewRequest(http.MethodGet, "/api/questions?page=2&page_size=5&sort_by=question&sort_order=ASC&search=go", nil)
	rec := serve("GET /api/questions", h.ListQuestions, r, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.PageSize)
	assert.Equal(t, models.SortByQuestion, got.SortBy)
	assert.Equal(t, models.SortAsc, got.SortOrder)
	assert.Equal(t, "go", got.Search)
	assert.Contains(t, rec.Body.String(), `"data":[]`)

	r = httptest.NewRequest(http.MethodGet, "/api/questions?page_size=1000", nil)
	rec = serve("GET /api/questions", h.ListQuestions, r, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	fields, ok := decodeProblem(t, rec)["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "page_size")
}

func TestGetQuestion(t *testing.T) {
	id := uuid.New()
	svc := &questionServiceMock{
		GetQuestionFunc: func(_ context.Context, _, gotID uuid.UUID) (*models.Question, error) {
			if gotID != id {
				return nil, &domain.NotFoundError{Message: "question not found"}
			}
			return &models.Question{ID: id, Question: "Q?", Source: models.SourceUser}, nil
		},
	}
	h := NewQuestionHandler(svc, discardLogger())

	rec := serve("GET /api/questions/{id}", h.GetQuestion, httptest.NewRequest(http.MethodGet, "/api/questions/"+id.String(), nil), true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve("GET /api/questions/{id}", h.GetQuestion, httptest.NewRequest(http.MethodGet, "/api/questions/"+uuid.NewString(), nil), true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve("GET /api/questions/{id}", h.GetQuestion, httptest.NewRequest(http.MethodGet, "/api/questions/not-a-uuid", nil), true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateQuestionAnswerSemantics(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantClear bool
		wantAns   *string
	}{
		{"absent answer untouched", `{"question":"New?"}`, false, nil},
		{"null answer cleared", `{"answer":null}`, true, nil},
		{"answer set", `{"answer":"Because."}`, false, func() *string { s := "Because."; return &s }()},
		{"empty answer kept", `{"answer":""}`, false, func() *string { s := ""; return &s }()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *models.QuestionPatch
			svc := &questionServiceMock{
				UpdateQuestionFunc: func(_ context.Context, _, id uuid.UUID, patch *models.QuestionPatch) (*models.Question, error) {
					got = patch
					return &models.Question{ID: id}, nil
				},
			}
			h := NewQuestionHandler(svc, discardLogger())

			r := httptest.NewRequest(http.MethodPatch, "/api/questions/"+uuid.NewString(), strings.NewReader(tt.body))
			rec := serve("PATCH /api/questions/{id}", h.UpdateQuestion, r, true)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantClear, got.ClearAnswer)
			assert.Equal(t, tt.wantAns, got.Answer)
		})
	}
}

func TestUpdateQuestionFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"empty patch", &domain.ValidationError{Message: "at least one field must be provided to update"}, http.StatusBadRequest},
		{"store rejected", &domain.PersistenceError{Op: "failed to update the question", Err: domain.ErrNotFound}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &questionServiceMock{
				UpdateQuestionFunc: func(context.Context, uuid.UUID, uuid.UUID, *models.QuestionPatch) (*models.Question, error) {
					return nil, tt.err
				},
			}
			h := NewQuestionHandler(svc, discardLogger())
			r := httptest.NewRequest(http.MethodPatch, "/api/questions/"+uuid.NewString(), strings.NewReader(`{}`))
			rec := serve("PATCH /api/questions/{id}", h.UpdateQuestion, r, true)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCreateAndDeleteQuestion(t *testing.T) {
	svc := &questionServiceMock{
		CreateQuestionFunc: func(_ context.Context, owner uuid.UUID, req *services.CreateQuestionRequest) (*models.Question, error) {
			return &models.Question{ID: uuid.New(), UserID: owner, Question: req.Question, Source: models.SourceUser}, nil
		},
		DeleteQuestionFunc: func(context.Context, uuid.UUID, uuid.UUID) error { return nil },
	}
	h := NewQuestionHandler(svc, discardLogger())

	r := httptest.NewRequest(http.MethodPost, "/api/questions", strings.NewReader(`{"question":"Why Go?"}`))
	rec := serve("POST /api/questions", h.CreateQuestion, r, true)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"user"`)

	rec = serve("DELETE /api/questions/{id}", h.DeleteQuestion, httptest.NewRequest(http.MethodDelete, "/api/questions/"+uuid.NewString(), nil), true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	svc.DeleteQuestionFunc = func(context.Context, uuid.UUID, uuid.UUID) error {
		return &domain.PersistenceError{Op: "failed to delete the question", Err: errors.New("boom")}
	}
	rec = serve("DELETE /api/questions/{id}", h.DeleteQuestion, httptest.NewRequest(http.MethodDelete, "/api/questions/"+uuid.NewString(), nil), true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	h := NewHealthHandler(pingerFunc(func(context.Context) error { return nil }), discardLogger())
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	h = NewHealthHandler(pingerFunc(func(context.Context) error { return errors.New("down") }), discardLogger())
	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
