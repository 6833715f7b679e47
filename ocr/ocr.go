package ocr

import (
	"context"
)

// ProgressFunc receives coarse extraction progress as a percentage (0-100).
// Values are synthetic checkpoints, not byte-level progress: they are
// non-decreasing and reach exactly 100 on success. On failure there is no
// guarantee of reaching 100.
type ProgressFunc func(percent int)

// Provider represents an interface for OCR operations
type Provider interface {
	// ExtractText extracts text from a base64-encoded image.
	// onProgress may be nil.
	ExtractText(ctx context.Context, imageBase64 []byte, onProgress ProgressFunc, opts ...Option) (Result, error)
}

// Result represents the output of an OCR operation
type Result struct {
	// Text is the extracted text with newline structure preserved
	// as returned by the provider. Empty text is a valid result.
	Text string

	// Confidence is the overall confidence score (0-1), when the
	// provider reports one
	Confidence float32
}

// Client represents a configured OCR client
type Client struct {
	provider Provider
}

// NewClient creates a new OCR client
func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

// ExtractText extracts text from a base64-encoded image. An empty payload
// fails with ErrEmptyImage before any request is issued. A single attempt
// is made per call; there is no retry.
func (c *Client) ExtractText(ctx context.Context, imageBase64 []byte, onProgress ProgressFunc, opts ...Option) (Result, error) {
	if len(imageBase64) == 0 {
		return Result{}, Errors.New(ErrEmptyImage)
	}
	return c.provider.ExtractText(ctx, imageBase64, onProgress, opts...)
}
