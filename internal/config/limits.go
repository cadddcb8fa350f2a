package config

import "math"

const (
	// MaxSourceTextLength bounds the free text submitted for question generation.
	MaxSourceTextLength = 10000

	// MaxQuestionLength is the maximum length for a stored question.
	MaxQuestionLength = 10000

	// MaxAnswerLength is the maximum length for a stored answer.
	MaxAnswerLength = 10000

	// DefaultPageSize is used by question listing when page_size is omitted.
	DefaultPageSize = 10

	// MaxPage keeps the list offset within int range.
	MaxPage = math.MaxInt32

	// MaxPageSize caps page_size so a single list call stays a bounded read.
	MaxPageSize = 100

	// MinPasswordLength and MaxPasswordLength follow the auth platform's bcrypt limit (72 bytes).
	MinPasswordLength = 8
	MaxPasswordLength = 72
)
