// internal/api/jobs.go
package api

import (
	"net/http"
	"strconv"

	stderrors "recruiting-backoffice/internal/common/errors"
	"recruiting-backoffice/internal/models"
	"recruiting-backoffice/internal/workflows/posting"
)

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.posting.ListJobs(r.Context(), models.JobStatus(r.URL.Query().Get("status")))
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []*models.Job{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var input posting.CreateJobInput
	if err := s.decodeJSON(r, &input); err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	job, err := s.posting.CreateJob(r.Context(), input)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]interface{}{"job": job})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.posting.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var input posting.UpdateJobInput
	if err := s.decodeJSON(r, &input); err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	job, err := s.posting.UpdateJob(r.Context(), r.PathValue("id"), input)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.posting.DeleteJob(r.Context(), r.PathValue("id")); err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "job deleted"})
}

func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.errors.HandleHTTPError(w, r, stderrors.NewValidationError("query parameter q is required"))
		return
	}

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, _ = strconv.Atoi(raw)
	}

	jobs, err := s.search.Search(r.Context(), q, size)
	if err != nil {
		s.errors.HandleHTTPError(w, r, stderrors.NewSearchQueryFailedError(err))
		return
	}
	if jobs == nil {
		jobs = []*models.Job{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}
