package http

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"sispulse/internal/config"
)

// HealthHandler reports service liveness and whether the cleaned dataset is
// available to serve.
type HealthHandler struct {
	paths   *config.Paths
	version string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(paths *config.Paths, version string) *HealthHandler {
	return &HealthHandler{paths: paths, version: version}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetHealth)
	return r
}

// GetHealth always returns 200 while the process is serving. The dataset
// flag tells operators whether the pipeline has produced output yet.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	_, err := os.Stat(h.paths.CleanedTablePath())
	render.JSON(w, r, map[string]any{
		"status":        "healthy",
		"version":       h.version,
		"dataset_ready": err == nil,
	})
}
