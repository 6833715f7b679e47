// Package sumanthropic implements the summarize.Summarizer interface over
// the Anthropic messages API.
package sumanthropic

import (
	"context"
	"os"
	"strings"

	"github.com/Abraxas-365/lectora/summarize"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is used when no model option is given
const DefaultModel = "claude-3-5-haiku-latest"

// Provider implements summarize.Summarizer for Anthropic
type Provider struct {
	client anthropic.Client
}

// New creates a new Anthropic summarization provider
func New(apiKey string, opts ...option.RequestOption) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	options := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := anthropic.NewClient(options...)

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

	maxTokens := options.MaxTokens
	if maxTokens <= 0 {
		// The messages API requires a positive cap
		maxTokens = 1024
	}

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(options.Prompt + text)),
		},
	})
	if err != nil {
		return "", summarize.Errors.NewWithCause(summarize.ErrRequestFailed, err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return summarize.FallbackSummary, nil
	}

	return sb.String(), nil
}
