package web

// errors.go renders failures as JSON.
//
// The "error" field always carries the original failure message, so a
// corrupt file reports exactly what the parser said. The support code and
// suggested action from upload.MapError are added alongside it.

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/dataaudit/internal/logging"
	"github.com/JonMunkholm/dataaudit/internal/upload"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code,omitempty"`
}

// respondError logs err and writes it with the given status.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := upload.MapError(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{
		Error:   err.Error(),
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// writeError writes a plain error message without a support code.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}
