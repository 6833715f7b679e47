package summarize

import (
	"context"

	"github.com/Abraxas-365/lectora/logx"
)

// FallbackSummary is returned when the provider response is malformed
// or carries no content
const FallbackSummary = "No summary available."

// Summarizer condenses plain text via a remote LLM endpoint
type Summarizer interface {
	// Summarize sends the full input text in a single chat-completion
	// request and returns the condensed summary. No chunking is done and
	// no length limit is enforced; provider-side truncation applies.
	Summarize(ctx context.Context, text string, opts ...Option) (string, error)
}

// Client represents a configured summarization client
type Client struct {
	provider Summarizer
}

// NewClient creates a new summarization client
func NewClient(provider Summarizer) *Client {
	return &Client{provider: provider}
}

// Summarize condenses the given text. The input is passed through whole;
// when it likely exceeds the model window a warning is logged but the
// request is still issued (single attempt, no retry).
func (c *Client) Summarize(ctx context.Context, text string, opts ...Option) (string, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if tokens := CountTokens(options.Model, options.Prompt+text); tokens > modelWindow(options.Model) {
		logx.Warn("summarize input is %d tokens, above the model window; provider may truncate", tokens)
	}

	return c.provider.Summarize(ctx, text, opts...)
}
