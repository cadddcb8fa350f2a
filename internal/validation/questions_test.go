package validation

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"interviewprep/internal/domain"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/domain/services"
)

func ptr[T any](v T) *T { return &v }

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected *domain.ValidationError, got %T", err)
	return verr.Fields
}

func TestGenerateQuestions(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"single char", "a", false},
		{"at limit", strings.Repeat("x", 10000), false},
		{"multibyte at limit", strings.Repeat("ż", 10000), false},
		{"empty", "", true},
		{"whitespace only", "   \n\t", false},
		{"over limit", strings.Repeat("x", 10001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GenerateQuestions(&services.GenerateQuestionsRequest{SourceText: tt.text})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldsOf(t, err), "source_text")
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestSaveProposals(t *testing.T) {
	validID := "0b6f1c9e-3a52-4a8e-9d3c-1f2e3d4c5b6a"

	t.Run("valid", func(t *testing.T) {
		err := SaveProposals(&services.SaveProposalsRequest{
			GenerationLogID: validID,
			Questions: []services.ProposalSelection{
				{Question: "What is a goroutine?", Edited: ptr(false)},
				{Question: "Explain MVCC.", Edited: ptr(true), Answer: ptr("Row versions.")},
			},
		})
		assert.NoError(t, err)
	})

	t.Run("nested field paths", func(t *testing.T) {
		err := SaveProposals(&services.SaveProposalsRequest{
			GenerationLogID: "not-a-uuid",
			Questions: []services.ProposalSelection{
				{Question: "ok", Edited: ptr(false)},
				{Question: "", Edited: nil, Answer: ptr(strings.Repeat("a", 10001))},
			},
		})
		fields := fieldsOf(t, err)
		assert.Contains(t, fields, "generation_log_id")
		assert.Contains(t, fields, "questions.1.question")
		assert.Contains(t, fields, "questions.1.edited")
		assert.Contains(t, fields, "questions.1.answer")
		assert.NotContains(t, fields, "questions.0.question")
	})

	t.Run("empty batch", func(t *testing.T) {
		err := SaveProposals(&services.SaveProposalsRequest{GenerationLogID: validID})
		assert.Contains(t, fieldsOf(t, err), "questions")
	})
}

func TestCreateQuestion(t *testing.T) {
	assert.NoError(t, CreateQuestion(&services.CreateQuestionRequest{Question: "Q?"}))
	assert.NoError(t, CreateQuestion(&services.CreateQuestionRequest{Question: "Q?", Answer: ptr("")}))

	assert.NoError(t, CreateQuestion(&services.CreateQuestionRequest{Question: " "}))

	err := CreateQuestion(&services.CreateQuestionRequest{Question: ""})
	assert.Contains(t, fieldsOf(t, err), "question")
}

func TestUpdateQuestion(t *testing.T) {
	t.Run("empty patch", func(t *testing.T) {
		err := UpdateQuestion(&models.QuestionPatch{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("clear answer only", func(t *testing.T) {
		assert.NoError(t, UpdateQuestion(&models.QuestionPatch{ClearAnswer: true}))
	})

	t.Run("whitespace question", func(t *testing.T) {
		assert.NoError(t, UpdateQuestion(&models.QuestionPatch{Question: ptr("  ")}))
	})

	t.Run("empty question", func(t *testing.T) {
		err := UpdateQuestion(&models.QuestionPatch{Question: ptr("")})
		assert.Contains(t, fieldsOf(t, err), "question")
	})

	t.Run("answer too long", func(t *testing.T) {
		err := UpdateQuestion(&models.QuestionPatch{Answer: ptr(strings.Repeat("a", 10001))})
		assert.Contains(t, fieldsOf(t, err), "answer")
	})
}

func TestListQuestionsQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q, err := ListQuestionsQuery(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, models.ListQuestionsQuery{
			Page:      1,
			PageSize:  10,
			SortBy:    "created_at",
			SortOrder: "desc",
		}, q)
	})

	t.Run("explicit", func(t *testing.T) {
		q, err := ListQuestionsQuery(url.Values{
			"page":       {"3"},
			"page_size":  {"25"},
			"sort_by":    {"question"},
			"sort_order": {"ASC"},
			"search":     {"  goroutine "},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, q.Page)
		assert.Equal(t, 25, q.PageSize)
		assert.Equal(t, "question", q.SortBy)
		assert.Equal(t, "asc", q.SortOrder)
		assert.Equal(t, "goroutine", q.Search)
		assert.Equal(t, 50, q.Offset())
	})

	invalid := []struct {
		name  string
		query url.Values
		field string
	}{
		{"page not int", url.Values{"page": {"x"}}, "page"},
		{"page zero", url.Values{"page": {"0"}}, "page"},
		{"page negative", url.Values{"page": {"-1"}}, "page"},
		{"page beyond offset range", url.Values{"page": {"4611686018427387904"}}, "page"},
		{"page_size too big", url.Values{"page_size": {"101"}}, "page_size"},
		{"unknown sort column", url.Values{"sort_by": {"user_id; drop"}}, "sort_by"},
		{"bad order", url.Values{"sort_order": {"sideways"}}, "sort_order"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ListQuestionsQuery(tt.query)
			assert.Contains(t, fieldsOf(t, err), tt.field)
		})
	}
}

func TestQuestionID(t *testing.T) {
	id, err := QuestionID("0b6f1c9e-3a52-4a8e-9d3c-1f2e3d4c5b6a")
	require.NoError(t, err)
	assert.Equal(t, "0b6f1c9e-3a52-4a8e-9d3c-1f2e3d4c5b6a", id.String())

	_, err = QuestionID("123")
	assert.Contains(t, fieldsOf(t, err), "id")
}

func TestProposals(t *testing.T) {
	assert.NoError(t, Proposals([]models.QuestionProposal{{Question: "Why?"}}))

	err := Proposals(nil)
	assert.Contains(t, fieldsOf(t, err), "questions")

	err = Proposals([]models.QuestionProposal{{Question: "Fine"}, {Question: " \t "}})
	assert.Contains(t, fieldsOf(t, err), "questions.1.question")
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, notBlank.Validate("x"))
	assert.NoError(t, notBlank.Validate((*string)(nil)))
	assert.NoError(t, notBlank.Validate(ptr(" x ")))
	assert.Error(t, notBlank.Validate(" "))
	assert.Error(t, notBlank.Validate(ptr("\t")))
}
