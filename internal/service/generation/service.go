// Package generation runs one generation attempt end to end: the attempt is
// logged before the completion call and always finished, success or error.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"interviewprep/internal/domain"
	"interviewprep/internal/domain/models"
	"interviewprep/internal/domain/repositories"
	"interviewprep/internal/domain/services"
	"interviewprep/internal/llm/openrouter"
	"interviewprep/internal/prompts"
	"interviewprep/internal/validation"
)

// finishTimeout bounds the terminal log update once the caller's context is gone.
const finishTimeout = 5 * time.Second

// questionsPayload is the decoded completion.
type questionsPayload struct {
	Questions []models.QuestionProposal `json:"questions"`
}

// Service implements services.GenerationService.
type Service struct {
	logs      repositories.GenerationLogRepository
	completer services.StructuredCompleter
	prompt    *prompts.Prompt
	logger    *slog.Logger
}

// NewService creates the generation orchestrator.
func NewService(
	logs repositories.GenerationLogRepository,
	completer services.StructuredCompleter,
	prompt *prompts.Prompt,
	logger *slog.Logger,
) services.GenerationService {
	return &Service{
		logs:      logs,
		completer: completer,
		prompt:    prompt,
		logger:    logger,
	}
}

// Generate validates the source text, records a pending attempt, asks the model
// for proposals and records the outcome.
func (s *Service) Generate(ctx context.Context, ownerID uuid.UUID, req *services.GenerateQuestionsRequest) (*models.GenerationResult, error) {
	if err := validation.GenerateQuestions(req); err != nil {
		return nil, err
	}

	logID, err := s.logs.Create(ctx, ownerID, req.SourceText)
	if err != nil {
		return nil, fmt.Errorf("create generation log: %w", err)
	}

	started := time.Now()
	s.logger.Info("generation started",
		"log_id", logID,
		"user_id", ownerID,
		"source_chars", utf8.RuneCountInString(req.SourceText),
	)

	payload, raw, err := s.complete(ctx, req.SourceText)
	if err != nil {
		return nil, s.fail(ctx, logID, started, err)
	}

	finishCtx, cancel := detached(ctx)
	defer cancel()
	if err := s.logs.MarkSuccess(finishCtx, logID, raw); err != nil {
		return nil, s.fail(ctx, logID, started, fmt.Errorf("record success: %w", err))
	}

	s.logger.Info("generation succeeded",
		"log_id", logID,
		"proposals", len(payload.Questions),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return &models.GenerationResult{
		GenerationLogID:   logID,
		QuestionProposals: payload.Questions,
	}, nil
}

// complete calls the model and checks the proposals it returned. raw is the
// parsed payload as received, before proposals are trimmed.
func (s *Service) complete(ctx context.Context, sourceText string) (*questionsPayload, json.RawMessage, error) {
	var payload questionsPayload
	err := s.completer.CompleteStructured(ctx, &services.StructuredRequest{
		Model:  s.prompt.Model,
		System: s.prompt.System,
		User:   sourceText,
		Schema: s.prompt.Schema,
	}, &payload)
	if err != nil {
		return nil, nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("encode response: %w", err)
	}

	for i := range payload.Questions {
		payload.Questions[i].Question = strings.TrimSpace(payload.Questions[i].Question)
	}
	if err := validation.Proposals(payload.Questions); err != nil {
		// reported as an upstream failure, not as a client validation error
		return nil, nil, fmt.Errorf("completion returned unusable proposals: %s", describe(err))
	}
	return &payload, raw, nil
}

// fail records the error on the log and returns the failure to surface. A failure
// to record is logged and never replaces the original cause.
func (s *Service) fail(ctx context.Context, logID uuid.UUID, started time.Time, cause error) error {
	finishCtx, cancel := detached(ctx)
	defer cancel()

	if err := s.logs.MarkError(finishCtx, logID, cause.Error()); err != nil {
		s.logger.Error("failed to record generation error",
			"log_id", logID,
			"error", err,
		)
	}

	s.logger.Warn("generation failed",
		"log_id", logID,
		"kind", openrouter.KindOf(cause).String(),
		"duration_ms", time.Since(started).Milliseconds(),
		"error", cause,
	)

	return &domain.GenerationError{LogID: logID, Cause: cause}
}

// detached keeps the caller's values but not its cancellation, so a terminal
// state is still written after the client goes away.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
}

func describe(err error) string {
	paths := validation.FieldPaths(err)
	if len(paths) == 0 {
		return err.Error()
	}
	return "invalid " + strings.Join(paths, ", ")
}
