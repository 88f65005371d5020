package inference

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ayush/exploring-space/internal/metrics"
)

// OpenAIClient generates text through any OpenAI-compatible chat API.
type OpenAIClient struct {
	client  openai.Client
	model   string
	metrics *metrics.Metrics
}

func NewOpenAIClient(apiKey, baseURL, model string, m *metrics.Metrics, extra ...option.RequestOption) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, extra...)
	return &OpenAIClient{client: openai.NewClient(opts...), model: model, metrics: m}
}

// Generate sends prompt as a single user message.
func (o *OpenAIClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(o.model),
		Messages:  []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		MaxTokens: openai.Int(int64(maxTokens)),
	})
	o.metrics.Upstream("openai", err)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
