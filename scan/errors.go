package scan

import (
	"net/http"

	"github.com/Abraxas-365/lectora/errx"
)

// Error registry for scan
var (
	Errors = errx.NewRegistry("SCAN")

	ErrInvalidSavedText = Errors.Register("INVALID_SAVED_TEXT", errx.TypeValidation, http.StatusBadRequest, "Title and text are required")
	ErrTextNotFound     = Errors.Register("TEXT_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Saved text not found")
	ErrHistoryNotFound  = Errors.Register("HISTORY_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "History item not found")
	ErrScanInProgress   = Errors.Register("SCAN_IN_PROGRESS", errx.TypeBadRequest, http.StatusConflict, "A scan is already being processed")
	ErrNoImage          = Errors.Register("NO_IMAGE", errx.TypeBadRequest, http.StatusBadRequest, "No image available to retry")
	ErrInvalidState     = Errors.Register("INVALID_STATE", errx.TypeBadRequest, http.StatusConflict, "Operation not allowed in the current state")
	ErrSpeechDisabled   = Errors.Register("SPEECH_DISABLED", errx.TypeBadRequest, http.StatusBadRequest, "Speech is disabled in settings")
	ErrNothingToExport  = Errors.Register("NOTHING_TO_EXPORT", errx.TypeValidation, http.StatusBadRequest, "There is no text to export")
)
