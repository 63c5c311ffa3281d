// internal/api/resumes.go
package api

import (
	"net/http"
	"path"
	"strings"

	stderrors "recruiting-backoffice/internal/common/errors"
	"recruiting-backoffice/internal/store"

	"github.com/google/uuid"
)

type resumeUploadRequest struct {
	FileName string `json:"fileName"`
}

// handleCreateResumeUpload issues a presigned upload URL. The resume id
// doubles as the object key prefix; the client PUTs the file straight
// to object storage.
func (s *Server) handleCreateResumeUpload(w http.ResponseWriter, r *http.Request) {
	var req resumeUploadRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	if req.FileName == "" {
		s.errors.HandleHTTPError(w, r, stderrors.NewValidationError("fileName is required"))
		return
	}

	resumeID := uuid.New().String()
	key := "resumes/" + resumeID + "/" + path.Base(req.FileName)

	url, err := s.resumes.PresignUpload(r.Context(), key, s.presignExpiry)
	if err != nil {
		s.errors.HandleHTTPError(w, r, stderrors.NewStorageFailedError("presign upload", err))
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]string{
		"resumeId":  resumeID,
		"key":       key,
		"uploadUrl": url,
	})
}

// handleGetResumeDownload issues a presigned download URL for the
// resume attached to an application.
func (s *Server) handleGetResumeDownload(w http.ResponseWriter, r *http.Request) {
	resumeID := r.PathValue("id")

	key, err := s.resumeKey(r, resumeID)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	url, err := s.resumes.PresignDownload(r.Context(), key, s.presignExpiry)
	if err != nil {
		s.errors.HandleHTTPError(w, r, stderrors.NewStorageFailedError("presign download", err))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"downloadUrl": url})
}

// resumeKey resolves the object key for a resume id, preferring the key
// recorded on the owning application.
func (s *Server) resumeKey(r *http.Request, resumeID string) (string, error) {
	apps, err := s.intake.ListApplications(r.Context(), store.ApplicationFilter{})
	if err != nil {
		return "", err
	}
	for _, app := range apps {
		if app.ResumeID != resumeID {
			continue
		}
		if app.ResumeKey != "" {
			return app.ResumeKey, nil
		}
		if app.ResumeName != "" {
			return "resumes/" + resumeID + "/" + strings.TrimSpace(app.ResumeName), nil
		}
	}
	return "", stderrors.NewNotFoundError("resume", resumeID)
}
