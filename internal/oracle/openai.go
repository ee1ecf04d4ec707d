// Package oracle implements the advisory planning oracle over the OpenAI
// chat completion API. Its suggestions are untrusted input: the planner
// validates and may override every field.
package oracle

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"reelforge/internal/core"
	"reelforge/internal/logging"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.3
)

// Client is the OpenAI-backed oracle.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	log         *logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithModel selects the chat model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ClientOption {
	return func(c *Client) { c.temperature = float32(t) }
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(apiKey, baseURL string) ClientOption {
	return func(c *Client) {
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = baseURL
		c.client = openai.NewClientWithConfig(cfg)
	}
}

// New creates an oracle client.
func New(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("oracle: API key is required")
	}
	c := &Client{
		client:      openai.NewClient(apiKey),
		model:       defaultModel,
		temperature: defaultTemperature,
		log:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SuggestPlan implements core.Oracle. The caller bounds the context; any
// failure here is recoverable upstream via the template plan.
func (c *Client) SuggestPlan(ctx context.Context, req core.SuggestRequest) (*core.PlanSuggestion, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
	})
	if err != nil {
		return nil, core.ErrOracleUnavailable(err)
	}
	if len(resp.Choices) == 0 {
		return nil, core.ErrOracleUnavailable(errors.New("empty completion response"))
	}

	suggestion, err := parseSuggestion(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	c.log.Debug("oracle suggestion received",
		"model", c.model,
		"scenes", len(suggestion.Scenes),
		"duration", time.Since(start))
	return suggestion, nil
}
