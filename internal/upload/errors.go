package upload

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/dataaudit/internal/analysis"
	"github.com/JonMunkholm/dataaudit/internal/loader"
)

// ErrTooManyUploads is returned when all upload slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyUploads = errors.New("too many concurrent uploads, please try again later")

// Messages reported for rejected requests.
const (
	MsgNoFilePart      = "No file part"
	MsgNoSelectedFile  = "No selected file"
	MsgTypeNotAllowed  = "File type not allowed"
	MsgUploadSucceeded = "File uploaded successfully"
)

// ValidationError is a client mistake found before any file content is read.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StatusCode maps an upload failure to its HTTP status. Client mistakes are
// 400, an oversized file is 413, a full limiter is 503, and everything else
// is a server error.
func StatusCode(err error) int {
	var (
		ve *ValidationError
		le *loader.LoadError
		ae *analysis.AnalysisError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooManyUploads):
		return http.StatusServiceUnavailable
	case errors.Is(err, loader.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &le), errors.As(err, &ae):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
