package summarize

import (
	"net/http"

	"github.com/Abraxas-365/lectora/errx"
)

// Error registry for summarize
var (
	Errors = errx.NewRegistry("SUMMARIZE")

	// ErrRequestFailed covers transport failures and non-2xx responses
	ErrRequestFailed = Errors.Register("REQUEST_FAILED", errx.TypeExternal, http.StatusBadGateway, "Summarization request failed")
)
