package store

import (
	"net/http"

	"github.com/Abraxas-365/lectora/errx"
)

// Error registry for store
var (
	Errors = errx.NewRegistry("STORE")

	ErrReadFailed   = Errors.Register("READ_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to read stored document")
	ErrWriteFailed  = Errors.Register("WRITE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to write stored document")
	ErrDecodeFailed = Errors.Register("DECODE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Stored document is not valid JSON")
	ErrEncodeFailed = Errors.Register("ENCODE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to encode document")
)

// IsDecodeFailed checks whether err means the stored document was malformed
func IsDecodeFailed(err error) bool {
	return errx.IsCode(err, ErrDecodeFailed)
}
