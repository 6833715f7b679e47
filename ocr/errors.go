package ocr

import (
	"net/http"

	"github.com/Abraxas-365/lectora/errx"
)

// Error registry for ocr
var (
	Errors = errx.NewRegistry("OCR")

	// ErrEmptyImage is returned before any request is issued
	ErrEmptyImage = Errors.Register("EMPTY_IMAGE", errx.TypeValidation, http.StatusBadRequest, "Image payload is empty")

	// ErrRequestFailed covers network failures and non-2xx responses
	ErrRequestFailed = Errors.Register("REQUEST_FAILED", errx.TypeExternal, http.StatusBadGateway, "OCR request failed")

	// ErrProviderFailed covers errors reported inside the provider payload
	ErrProviderFailed = Errors.Register("PROVIDER_FAILED", errx.TypeExternal, http.StatusBadGateway, "OCR provider reported a processing error")

	// ErrNoResults is returned when the provider parses zero results
	ErrNoResults = Errors.Register("NO_RESULTS", errx.TypeExternal, http.StatusBadGateway, "OCR provider returned no parsed results")

	// ErrInvalidResponse is returned when the provider payload cannot be decoded
	ErrInvalidResponse = Errors.Register("INVALID_RESPONSE", errx.TypeExternal, http.StatusBadGateway, "OCR provider returned an invalid response")
)

// IsEmptyImage checks whether err is the empty-payload validation error
func IsEmptyImage(err error) bool {
	return errx.IsCode(err, ErrEmptyImage)
}
