package web

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/dataaudit/internal/upload"
)

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status            string               `json:"status"`
	Uploads           upload.LimiterStatus `json:"uploads"`
	AllowedExtensions []string             `json:"allowed_extensions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:            "ok",
		Uploads:           s.gateway.Limiter().Status(),
		AllowedExtensions: s.gateway.AllowedExtensions(),
	})
}
