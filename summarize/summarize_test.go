package summarize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummarizer struct {
	gotText string
	gotOpts *Options
	summary string
	err     error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string, opts ...Option) (string, error) {
	f.gotText = text
	f.gotOpts = DefaultOptions()
	for _, opt := range opts {
		opt(f.gotOpts)
	}
	return f.summary, f.err
}

func TestClient_Summarize_DelegatesToProvider(t *testing.T) {
	provider := &fakeSummarizer{summary: "short version"}
	client := NewClient(provider)

	summary, err := client.Summarize(context.Background(), "a very long text")
	require.NoError(t, err)
	assert.Equal(t, "short version", summary)
	assert.Equal(t, "a very long text", provider.gotText)
}

func TestClient_Summarize_PassesOptionsThrough(t *testing.T) {
	provider := &fakeSummarizer{summary: "s"}
	client := NewClient(provider)

	_, err := client.Summarize(context.Background(), "text",
		WithModel("gpt-4o"),
		WithMaxTokens(256),
		WithPrompt("Condense: "),
	)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", provider.gotOpts.Model)
	assert.Equal(t, 256, provider.gotOpts.MaxTokens)
	assert.Equal(t, "Condense: ", provider.gotOpts.Prompt)
}

func TestClient_Summarize_PropagatesProviderError(t *testing.T) {
	provider := &fakeSummarizer{err: assert.AnError}
	client := NewClient(provider)

	_, err := client.Summarize(context.Background(), "text")
	assert.Error(t, err)
}

func TestDefaultOptions_Prompt(t *testing.T) {
	options := DefaultOptions()
	assert.Equal(t, "Summarize this: ", options.Prompt)
	assert.Equal(t, 1024, options.MaxTokens)
	assert.Empty(t, options.Model)
}

func TestFallbackSummary_Constant(t *testing.T) {
	assert.Equal(t, "No summary available.", FallbackSummary)
}

func TestCountTokens_AlwaysPositiveForText(t *testing.T) {
	count := CountTokens("", "hello world, this is a token count estimate")
	assert.Greater(t, count, 0)
}

func TestModelWindow_KnownModels(t *testing.T) {
	assert.Equal(t, 128000, modelWindow("gpt-4o-mini"))
	assert.Equal(t, 8192, modelWindow("gpt-4"))
	assert.Equal(t, 200000, modelWindow("claude-3-5-haiku-latest"))
	assert.Equal(t, 16385, modelWindow("gpt-3.5-turbo"))
}
