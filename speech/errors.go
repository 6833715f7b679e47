package speech

import (
	"net/http"

	"github.com/Abraxas-365/lectora/errx"
)

// Error registry for speech
var (
	Errors = errx.NewRegistry("SPEECH")

	ErrEngineFailed = Errors.Register("ENGINE_FAILED", errx.TypeSystem, http.StatusInternalServerError, "Speech engine failed")
)
