package services

import (
	"context"
	"encoding/json"
)

// ResponseSchema names a JSON schema the model output must follow.
type ResponseSchema struct {
	Name       string
	Strict     bool
	Definition json.RawMessage
}

// StructuredRequest is a single-turn completion constrained to a schema.
type StructuredRequest struct {
	Model  string
	System string
	User   string
	Schema ResponseSchema
}

// StructuredCompleter asks a language model for JSON output conforming to a schema
// and decodes it into dest.
type StructuredCompleter interface {
	CompleteStructured(ctx context.Context, req *StructuredRequest, dest any) error
}
