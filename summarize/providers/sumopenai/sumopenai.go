// Package sumopenai implements the summarize.Summarizer interface over
// the OpenAI chat completions API.
package sumopenai

import (
	"context"
	"os"
	"strings"

	"github.com/Abraxas-365/lectora/summarize"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is used when no model option is given
const DefaultModel = "gpt-3.5-turbo"

// Provider implements summarize.Summarizer for OpenAI
type Provider struct {
	client openai.Client
}

// New creates a new OpenAI summarization provider
func New(apiKey string, opts ...option.RequestOption) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	options := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(options...)

	return &Provider{
		client: client,
	}
}

// Summarize implements the Summarizer interface
func (p *Provider) Summarize(ctx context.Context, text string, opts ...summarize.Option) (string, error) {
	options := summarize.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	model := options.Model
	if model == "" {
		model = DefaultModel
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(options.Prompt + text),
		},
		Model: model,
	}

	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", summarize.Errors.NewWithCause(summarize.ErrRequestFailed, err)
	}

	if len(completion.Choices) == 0 {
		return summarize.FallbackSummary, nil
	}

	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return summarize.FallbackSummary, nil
	}

	return content, nil
}
