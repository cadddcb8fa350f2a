// Package openrouter is a structured-completion client for the OpenRouter
// chat completions API. Responses are constrained with a JSON schema and
// checked against it before being decoded.
package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/xeipuuv/gojsonschema"
	"interviewprep/internal/domain/services"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "x-ai/grok-code-fast-1"
	DefaultTimeout = 30 * time.Second
)

// Config configures a Client.
type Config struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
}

// Client implements services.StructuredCompleter. One request per call, no retries.
type Client struct {
	api          *openai.Client
	defaultModel string
	timeout      time.Duration
	logger       *slog.Logger
}

var _ services.StructuredCompleter = (*Client)(nil)

// NewClient creates a client. The API key is required.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	apiCfg.HTTPClient = &http.Client{}

	return &Client{
		api:          openai.NewClientWithConfig(apiCfg),
		defaultModel: cfg.DefaultModel,
		timeout:      cfg.Timeout,
		logger:       logger,
	}, nil
}

// CompleteStructured sends the system and user messages with a json_schema response
// format, then parses and validates the returned content and decodes it into dest.
func (c *Client) CompleteStructured(ctx context.Context, req *services.StructuredRequest, dest any) error {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: req.Schema.Definition,
				Strict: req.Schema.Strict,
			},
		},
	})
	if err != nil {
		translated := c.translateError(ctx, err)
		c.logger.Warn("completion request failed",
			"model", model,
			"kind", translated.Kind.String(),
			"status", translated.StatusCode,
			"duration_ms", time.Since(started).Milliseconds(),
			"error", translated.Error(),
		)
		return translated
	}

	c.logger.Debug("completion received",
		"model", model,
		"duration_ms", time.Since(started).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return protocol("invalid response from OpenRouter API: missing content", nil)
	}
	content := []byte(resp.Choices[0].Message.Content)

	if !json.Valid(content) {
		return protocol("failed to parse JSON content from OpenRouter API response", nil)
	}

	if len(req.Schema.Definition) > 0 {
		if err := validateAgainst(req.Schema.Definition, content); err != nil {
			return err
		}
	}

	if err := json.Unmarshal(content, dest); err != nil {
		return protocol("failed to decode OpenRouter API response", err)
	}
	return nil
}

func (c *Client) translateError(ctx context.Context, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return unavailable(fmt.Sprintf("OpenRouter API request timed out after %s", c.timeout), 0, err)
	}
	if errors.Is(err, context.Canceled) {
		return unavailable("OpenRouter API request canceled", 0, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.HTTPStatusCode)
		}
		return unavailable("OpenRouter API error: "+msg, apiErr.HTTPStatusCode, nil)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return unavailable(
			fmt.Sprintf("OpenRouter API error: %d %s", reqErr.HTTPStatusCode, http.StatusText(reqErr.HTTPStatusCode)),
			reqErr.HTTPStatusCode,
			nil,
		)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return protocol("failed to parse JSON response from OpenRouter API", err)
	}

	return unavailable("failed to communicate with OpenRouter API", 0, err)
}

// validateAgainst checks content against a JSON schema document.
func validateAgainst(schema json.RawMessage, content []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(content),
	)
	if err != nil {
		return protocol("response validation failed", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return protocol("response validation failed: "+strings.Join(msgs, "; "), nil)
	}
	return nil
}
