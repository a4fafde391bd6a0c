package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/dataaudit/internal/analysis"
	"github.com/JonMunkholm/dataaudit/internal/metrics"
	"github.com/JonMunkholm/dataaudit/internal/upload"
)

// UploadResponse is the success body of POST /api/upload.
type UploadResponse struct {
	Message  string           `json:"message"`
	Analysis *analysis.Report `json:"analysis"`
}

// handleUpload accepts a multipart form with a "file" field and returns
// the completeness report for it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.UploadHandled(metrics.ResultRejected)
			respondError(w, r, errFileTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		s.metrics.UploadHandled(metrics.ResultRejected)
		respondError(w, r, missingFileError(r), http.StatusBadRequest)
		return
	}
	defer file.Close()

	report, err := s.gateway.Process(r.Context(), header.Filename, file)
	if err != nil {
		status := upload.StatusCode(err)
		s.metrics.UploadHandled(uploadResult(status))
		respondError(w, r, err, status)
		return
	}

	s.metrics.UploadHandled(metrics.ResultSuccess)
	render.JSON(w, r, UploadResponse{
		Message:  upload.MsgUploadSucceeded,
		Analysis: report,
	})
}

var errFileTooLarge = errors.New("file too large")

// missingFileError distinguishes a form without a "file" part from one whose
// file part has an empty filename, which multipart parsing stores as a value.
func missingFileError(r *http.Request) error {
	if r.MultipartForm != nil {
		if _, ok := r.MultipartForm.Value["file"]; ok {
			return upload.NewValidationError("file", upload.MsgNoSelectedFile)
		}
	}
	return upload.NewValidationError("file", upload.MsgNoFilePart)
}

func uploadResult(status int) string {
	switch {
	case status == http.StatusServiceUnavailable:
		return metrics.ResultBusy
	case status < http.StatusInternalServerError:
		return metrics.ResultRejected
	default:
		return metrics.ResultFailed
	}
}
