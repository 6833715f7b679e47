/*
Package errx provides the structured error system used across the pipeline.
It supports errors with types, codes, details, HTTP status mapping and
error wrapping.

# Basic Usage

Create simple errors with the New function:

	err := errx.New("saved text not found", errx.TypeNotFound)

	// Check error type
	if errx.IsType(err, errx.TypeNotFound) {
		// Handle not found case
	}

# Error Registry

Each subsystem owns a registry with prefixed error codes:

	// Registry for OCR errors
	ocrErrors := errx.NewRegistry("OCR")

	ErrEmptyImage := ocrErrors.Register("EMPTY_IMAGE", errx.TypeValidation, http.StatusBadRequest, "Image payload is empty")
	ErrRequestFailed := ocrErrors.Register("REQUEST_FAILED", errx.TypeExternal, http.StatusBadGateway, "OCR request failed")

	// Create instances of registered errors
	err := ocrErrors.New(ErrEmptyImage)

	// Create with the provider's message
	err := ocrErrors.NewWithMessage(ErrRequestFailed, "bad image")

# Adding Details

Provide additional context with details:

	err := ocrErrors.New(ErrRequestFailed).
		WithDetail("status", resp.StatusCode).
		WithDetail("endpoint", endpoint)

# Wrapping

Wrap transport errors while keeping the cause chain intact:

	if err := json.Unmarshal(body, &parsed); err != nil {
		return errx.Wrap(err, "failed to decode OCR response", errx.TypeExternal)
	}

The taxonomy in use: TypeValidation for rejected user input,
TypeExternal and TypeUnavailable for remote OCR and summarization failures,
TypeInternal for storage failures, TypeSystem for speech engine failures.
*/
package errx
