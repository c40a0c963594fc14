package agent

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/datalens-ai/datalens/internal/frame"
	"github.com/datalens-ai/datalens/internal/result"
)

const maxTokens = 2048

// OpenAIClient talks to any OpenAI-compatible chat-completion endpoint,
// which covers both supported providers.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds a client for the given provider, model, and
// user-supplied key. The model must belong to the provider's option set.
func NewOpenAIClient(p Provider, model, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if model == "" {
		model = p.DefaultModel()
	}
	if !p.ValidModel(model) {
		return nil, fmt.Errorf("model %q is not offered by provider %q", model, p.Name)
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = p.BaseURL
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

// NewOpenAIClientForBaseURL is a test hook that skips provider/model
// checks and points the client at an arbitrary endpoint.
func NewOpenAIClientForBaseURL(baseURL, model, apiKey string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), model: model}
}

// Analyze sends the frame and query to the model and decodes the
// structured mapping it returns.
func (c *OpenAIClient) Analyze(ctx context.Context, f *frame.Frame, query string) (*result.Result, error) {
	user, err := userPrompt(f, query)
	if err != nil {
		return nil, &Error{Err: err}
	}
	req := openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, &Error{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &Error{Err: fmt.Errorf("empty completion")}
	}
	r, err := result.Decode([]byte(resp.Choices[0].Message.Content))
	if err != nil {
		return nil, &Error{Err: err}
	}
	return r, nil
}
