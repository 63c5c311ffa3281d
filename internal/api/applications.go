// internal/api/applications.go
package api

import (
	"net/http"

	"recruiting-backoffice/internal/models"
	"recruiting-backoffice/internal/store"
	"recruiting-backoffice/internal/workflows/intake"
)

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.ApplicationFilter{
		JobID:  q.Get("jobId"),
		UserID: q.Get("userId"),
		Status: models.ApplicationStatus(q.Get("status")),
	}
	if bench := q.Get("talentBench"); bench != "" {
		onBench := bench == "true"
		filter.TalentBench = &onBench
	}

	apps, err := s.intake.ListApplications(r.Context(), filter)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	if apps == nil {
		apps = []*models.Application{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"applications": apps})
}

func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	var input intake.SubmitApplicationInput
	if err := s.decodeJSON(r, &input); err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	app, err := s.intake.SubmitApplication(r.Context(), input)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]interface{}{"application": app})
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.intake.GetApplication(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"application": app})
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	var input intake.UpdateApplicationInput
	if err := s.decodeJSON(r, &input); err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	app, err := s.intake.UpdateApplication(r.Context(), r.PathValue("id"), input)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"application": app})
}

func (s *Server) handleCreateBenchProfile(w http.ResponseWriter, r *http.Request) {
	var input intake.BenchProfileInput
	if err := s.decodeJSON(r, &input); err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	app, err := s.intake.CreateBenchProfile(r.Context(), input)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]interface{}{"application": app})
}
