package summarize

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// CountTokens estimates the token count of text for the given model.
// Unknown models fall back to the cl100k_base encoding; if even that
// fails the estimate is len(text)/4.
func CountTokens(model, text string) int {
	if model == "" {
		model = "gpt-3.5-turbo"
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return len(text) / 4
		}
	}

	return len(enc.Encode(text, nil, nil))
}

// modelWindow returns the approximate context window for known models
func modelWindow(model string) int {
	switch {
	case strings.HasPrefix(model, "gpt-4o"), strings.HasPrefix(model, "gpt-4-turbo"):
		return 128000
	case strings.HasPrefix(model, "gpt-4"):
		return 8192
	case strings.HasPrefix(model, "claude-"):
		return 200000
	default:
		// gpt-3.5-turbo and unknown models
		return 16385
	}
}
