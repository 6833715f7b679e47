package summarize

// Options contains options for summarization requests
type Options struct {
	// Model is the chat model to use; empty selects the provider default
	Model string

	// MaxTokens caps the completion length
	MaxTokens int

	// Prompt is prepended to the input text
	Prompt string
}

// Option is a function type to modify Options
type Option func(*Options)

// WithModel sets the chat model to use
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens caps the completion length
func WithMaxTokens(tokens int) Option {
	return func(o *Options) {
		o.MaxTokens = tokens
	}
}

// WithPrompt overrides the instruction prepended to the input text
func WithPrompt(prompt string) Option {
	return func(o *Options) {
		o.Prompt = prompt
	}
}

// DefaultOptions returns the default summarization options
func DefaultOptions() *Options {
	return &Options{
		Model:     "",
		MaxTokens: 1024,
		Prompt:    "Summarize this: ",
	}
}
