package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "sispulse/internal/errors"
	"sispulse/internal/services"
)

// DataService is the service surface the dashboard handlers depend on.
type DataService interface {
	Summary(ctx context.Context, filter services.Filter) (*services.Summary, error)
	Records(ctx context.Context, filter services.Filter) ([]services.RecordView, error)
	Filters(ctx context.Context) (*services.FilterOptions, error)
	StudentProfile(ctx context.Context, studentID string) (*services.StudentProfile, error)
}

// DataHandler serves the dashboard API from the cleaned dataset.
type DataHandler struct {
	service DataService
	logger  *slog.Logger
}

// NewDataHandler creates a dashboard data handler.
func NewDataHandler(service DataService, logger *slog.Logger) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		service: service,
		logger:  logger.With(slog.String("component", "data_handler")),
	}
}

// Routes returns the dashboard data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/records", h.GetRecords)
	r.Get("/filters", h.GetFilters)
	r.Get("/students/{studentID}", h.GetStudentProfile)

	return r
}

// GetSummary returns the headline metrics for the filtered view.
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), filterFromQuery(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetRecords returns the filtered enrollment rows with recomputed risk.
func (h *DataHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Records(r.Context(), filterFromQuery(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

// GetFilters returns the distinct filter values present in the dataset.
func (h *DataHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.Filters(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, options)
}

// GetStudentProfile returns the course-level drill-down for one student.
func (h *DataHandler) GetStudentProfile(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	profile, err := h.service.StudentProfile(r.Context(), studentID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, profile)
}

func (h *DataHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
	apperrors.RenderError(w, r, err)
}

func filterFromQuery(r *http.Request) services.Filter {
	q := r.URL.Query()
	return services.Filter{
		Department: q.Get("department"),
		Semester:   q.Get("semester"),
	}
}
