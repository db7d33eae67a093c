package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sispulse/internal/config"
	apperrors "sispulse/internal/errors"
	"sispulse/internal/services"
)

func testPaths(t *testing.T, base string) *config.Paths {
	t.Helper()
	return config.NewPaths(config.PathsConfig{
		DataDir: filepath.Join(base, "data"),
		LogsDir: filepath.Join(base, "logs"),
	})
}

type stubDataService struct {
	summary *services.Summary
	records []services.RecordView
	filters *services.FilterOptions
	profile *services.StudentProfile
	err     error

	lastFilter    services.Filter
	lastStudentID string
}

func (s *stubDataService) Summary(ctx context.Context, filter services.Filter) (*services.Summary, error) {
	s.lastFilter = filter
	return s.summary, s.err
}

func (s *stubDataService) Records(ctx context.Context, filter services.Filter) ([]services.RecordView, error) {
	s.lastFilter = filter
	return s.records, s.err
}

func (s *stubDataService) Filters(ctx context.Context) (*services.FilterOptions, error) {
	return s.filters, s.err
}

func (s *stubDataService) StudentProfile(ctx context.Context, studentID string) (*services.StudentProfile, error) {
	s.lastStudentID = studentID
	return s.profile, s.err
}

func newTestServer(stub *stubDataService) *httptest.Server {
	r := chi.NewRouter()
	r.Mount("/api/data", NewDataHandler(stub, nil).Routes())
	return httptest.NewServer(r)
}

func TestGetSummary(t *testing.T) {
	stub := &stubDataService{summary: &services.Summary{
		TotalStudents:     42,
		AverageFinalGrade: 71.3,
		AtRiskStudents:    7,
		Records:           100,
	}}
	srv := newTestServer(stub)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/data/summary?department=Arts&semester=Fall+2023")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, services.Filter{Department: "Arts", Semester: "Fall 2023"}, stub.lastFilter)

	var summary services.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 42, summary.TotalStudents)
	assert.Equal(t, 7, summary.AtRiskStudents)
}

func TestGetRecords(t *testing.T) {
	stub := &stubDataService{records: []services.RecordView{
		{StudentID: "STU0001", AtRisk: false},
		{StudentID: "STU0002", AtRisk: true},
	}}
	srv := newTestServer(stub)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/data/records")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Records []services.RecordView `json:"records"`
		Count   int                   `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Records, 2)
	assert.True(t, body.Records[1].AtRisk)
}

func TestGetFilters(t *testing.T) {
	stub := &stubDataService{filters: &services.FilterOptions{
		Departments: []string{"Arts", "Science"},
		Semesters:   []string{"Fall 2023", "Spring 2024"},
	}}
	srv := newTestServer(stub)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/data/filters")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var options services.FilterOptions
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&options))
	assert.Equal(t, []string{"Arts", "Science"}, options.Departments)
}

func TestGetStudentProfile(t *testing.T) {
	stub := &stubDataService{profile: &services.StudentProfile{
		StudentID: "STU0001",
		Name:      "Asha Rao",
		AtRisk:    true,
	}}
	srv := newTestServer(stub)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/data/students/STU0001")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "STU0001", stub.lastStudentID)

	var profile services.StudentProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "Asha Rao", profile.Name)
	assert.True(t, profile.AtRisk)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing dataset", apperrors.NewMissingProcessedError("cleaned.csv"), http.StatusServiceUnavailable},
		{"unknown student", apperrors.NewNotFoundError("student STU9999"), http.StatusNotFound},
		{"bad request", apperrors.NewValidationError("student_id must not be empty"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubDataService{err: tt.err})
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/api/data/students/STU9999")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestHealthHandler(t *testing.T) {
	base := t.TempDir()
	paths := testPaths(t, base)

	r := chi.NewRouter()
	r.Mount("/api/health", NewHealthHandler(paths, "1.0.0").Routes())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status       string `json:"status"`
		Version      string `json:"version"`
		DatasetReady bool   `json:"dataset_ready"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "1.0.0", body.Version)
	assert.False(t, body.DatasetReady, "no pipeline output yet")
}
