package models

import (
	"time"

	"github.com/google/uuid"
)

// QuestionSource tells how a question entered the user's list.
type QuestionSource string

const (
	SourceUser     QuestionSource = "user"
	SourceAI       QuestionSource = "ai"
	SourceAIEdited QuestionSource = "ai-edited"
)

// Question is a persisted question/answer pair owned by one user.
// GenerationLogID is set only for ai and ai-edited sources.
type Question struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	UserID          uuid.UUID      `json:"user_id" db:"user_id"`
	Question        string         `json:"question" db:"question"`
	Answer          *string        `json:"answer" db:"answer"`
	Source          QuestionSource `json:"source" db:"source"`
	GenerationLogID *uuid.UUID     `json:"generation_log_id" db:"generation_log_id"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// QuestionPatch describes a partial update. A nil field is left unchanged;
// ClearAnswer sets the answer to NULL.
type QuestionPatch struct {
	Question    *string `json:"question"`
	Answer      *string `json:"answer"`
	ClearAnswer bool    `json:"-"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *QuestionPatch) IsEmpty() bool {
	return p.Question == nil && p.Answer == nil && !p.ClearAnswer
}

// Sort columns accepted by question listing.
const (
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
	SortByQuestion  = "question"
	SortByAnswer    = "answer"
	SortBySource    = "source"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// QuestionSortColumns lists the columns a caller may sort by.
var QuestionSortColumns = []string{SortByCreatedAt, SortByUpdatedAt, SortByQuestion, SortByAnswer, SortBySource}

// ListQuestionsQuery is a validated list request.
type ListQuestionsQuery struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
	Search    string
}

// Offset returns the number of rows skipped before the requested page.
func (q ListQuestionsQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Pagination describes one page of a list.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes total pages as ceil(total / pageSize).
func NewPagination(page, pageSize, totalItems int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// QuestionPage is the list response body.
type QuestionPage struct {
	Data       []Question `json:"data"`
	Pagination Pagination `json:"pagination"`
}
