package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GenerationStatus is the lifecycle state of a generation attempt.
type GenerationStatus string

const (
	GenerationPending GenerationStatus = "pending"
	GenerationSuccess GenerationStatus = "success"
	GenerationError   GenerationStatus = "error"
)

// IsTerminal reports whether the status is success or error.
func (s GenerationStatus) IsTerminal() bool {
	return s == GenerationSuccess || s == GenerationError
}

// GenerationLog records one attempt of turning source text into question proposals.
// Status moves once from pending to a terminal state; FinishedAt is set iff terminal.
type GenerationLog struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	UserID       uuid.UUID        `json:"user_id" db:"user_id"`
	Prompt       string           `json:"prompt" db:"prompt"`
	Status       GenerationStatus `json:"status" db:"status"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	FinishedAt   *time.Time       `json:"finished_at,omitempty" db:"finished_at"`
	Response     json.RawMessage  `json:"response,omitempty" db:"response"`
	ErrorDetails *string          `json:"error_details,omitempty" db:"error_details"`
}

// QuestionProposal is an AI-suggested question not yet saved.
type QuestionProposal struct {
	Question string `json:"question"`
}

// GenerationResult is returned by a successful generation attempt.
type GenerationResult struct {
	GenerationLogID   uuid.UUID          `json:"generation_log_id"`
	QuestionProposals []QuestionProposal `json:"question_proposals"`
}
