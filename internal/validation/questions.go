// Package validation enforces the shape of user-submitted and AI-returned payloads.
// Every failure is returned as a *domain.ValidationError carrying field-level messages.
package validation

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"interviewprep/internal/config"
	"interviewprep/internal/domain"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/domain/services"
)

// GenerateQuestions validates a generation request.
func GenerateQuestions(req *services.GenerateQuestionsRequest) error {
	if req == nil {
		return domain.NewValidationError("source_text", "cannot be blank")
	}
	return toDomainError(validation.ValidateStruct(req,
		validation.Field(&req.SourceText,
			validation.Required.Error("source text is required"),
			validation.RuneLength(1, config.MaxSourceTextLength).
				Error(fmt.Sprintf("source text must not exceed %d characters", config.MaxSourceTextLength)),
		),
	))
}

// SaveProposals validates a save-proposals request.
func SaveProposals(req *services.SaveProposalsRequest) error {
	if req == nil {
		return domain.NewValidationError("questions", "at least one question is required")
	}

	errs := validation.Errors{
		"generation_log_id": validation.Validate(req.GenerationLogID, validation.Required, is.UUID),
		"questions": validation.Validate(req.Questions,
			validation.Required.Error("at least one question is required"),
		),
	}

	for i := range req.Questions {
		sel := &req.Questions[i]
		err := validation.ValidateStruct(sel,
			validation.Field(&sel.Question, questionRules()...),
			validation.Field(&sel.Edited, validation.NotNil.Error("is required")),
			validation.Field(&sel.Answer, validation.RuneLength(0, config.MaxAnswerLength)),
		)
		if err != nil {
			errs[fmt.Sprintf("questions.%d", i)] = err
		}
	}

	return toDomainError(errs.Filter())
}

// CreateQuestion validates a user-authored question.
func CreateQuestion(req *services.CreateQuestionRequest) error {
	if req == nil {
		return domain.NewValidationError("question", "cannot be blank")
	}
	return toDomainError(validation.ValidateStruct(req,
		validation.Field(&req.Question, questionRules()...),
		validation.Field(&req.Answer, validation.RuneLength(0, config.MaxAnswerLength)),
	))
}

// UpdateQuestion validates a partial update. At least one field must be present.
func UpdateQuestion(patch *models.QuestionPatch) error {
	if patch == nil || patch.IsEmpty() {
		return &domain.ValidationError{Message: "at least one field must be provided to update"}
	}
	return toDomainError(validation.ValidateStruct(patch,
		validation.Field(&patch.Question,
			validation.NilOrNotEmpty.Error("question cannot be empty"),
			validation.RuneLength(1, config.MaxQuestionLength),
		),
		validation.Field(&patch.Answer, validation.RuneLength(0, config.MaxAnswerLength)),
	))
}

// QuestionID parses a path identifier.
func QuestionID(raw string) (uuid.UUID, error) {
	if err := validation.Validate(raw, validation.Required, is.UUID); err != nil {
		return uuid.Nil, domain.NewValidationError("id", "invalid question id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", "invalid question id")
	}
	return id, nil
}

// listQueryInput mirrors the query string before defaults are applied.
type listQueryInput struct {
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
	Search    string `json:"search"`
}

// ListQuestionsQuery parses and validates list query parameters, applying defaults
// for absent values.
func ListQuestionsQuery(values url.Values) (models.ListQuestionsQuery, error) {
	in := listQueryInput{
		Page:      1,
		PageSize:  config.DefaultPageSize,
		SortBy:    models.SortByCreatedAt,
		SortOrder: models.SortDesc,
		Search:    strings.TrimSpace(values.Get("search")),
	}

	parseErrs := validation.Errors{}
	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			parseErrs["page"] = validation.NewError("validation_is_int", "must be an integer")
		}
		in.Page = n
	}
	if raw := values.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			parseErrs["page_size"] = validation.NewError("validation_is_int", "must be an integer")
		}
		in.PageSize = n
	}
	if raw := values.Get("sort_by"); raw != "" {
		in.SortBy = raw
	}
	if raw := values.Get("sort_order"); raw != "" {
		in.SortOrder = strings.ToLower(raw)
	}
	if len(parseErrs) > 0 {
		return models.ListQuestionsQuery{}, toDomainError(parseErrs)
	}

	sortColumns := make([]interface{}, len(models.QuestionSortColumns))
	for i, c := range models.QuestionSortColumns {
		sortColumns[i] = c
	}

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Page,
			validation.Required.Error("must be at least 1"),
			validation.Min(1),
			validation.Max(config.MaxPage),
		),
		validation.Field(&in.PageSize,
			validation.Required.Error("must be at least 1"),
			validation.Min(1),
			validation.Max(config.MaxPageSize),
		),
		validation.Field(&in.SortBy, validation.In(sortColumns...)),
		validation.Field(&in.SortOrder, validation.In(models.SortAsc, models.SortDesc)),
		validation.Field(&in.Search, validation.RuneLength(0, config.MaxQuestionLength)),
	)
	if err != nil {
		return models.ListQuestionsQuery{}, toDomainError(err)
	}

	return models.ListQuestionsQuery{
		Page:      in.Page,
		PageSize:  in.PageSize,
		SortBy:    in.SortBy,
		SortOrder: in.SortOrder,
		Search:    in.Search,
	}, nil
}

// Proposals checks AI-returned proposals: at least one, each trimmed non-empty
// and within the question length limit.
func Proposals(proposals []models.QuestionProposal) error {
	errs := validation.Errors{
		"questions": validation.Validate(proposals, validation.Required.Error("no questions returned")),
	}
	for i := range proposals {
		p := &proposals[i]
		if err := validation.ValidateStruct(p, validation.Field(&p.Question, append(questionRules(), notBlank)...)); err != nil {
			errs[fmt.Sprintf("questions.%d", i)] = err
		}
	}
	return toDomainError(errs.Filter())
}

func questionRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("question cannot be empty"),
		validation.RuneLength(1, config.MaxQuestionLength),
	}
}
