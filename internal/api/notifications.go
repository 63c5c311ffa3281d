// internal/api/notifications.go
package api

import (
	"database/sql"
	"errors"
	"net/http"

	stderrors "recruiting-backoffice/internal/common/errors"
	"recruiting-backoffice/internal/models"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := s.feed.List(r.Context())
	if err != nil {
		s.errors.HandleHTTPError(w, r, stderrors.NewQueryExecutionFailedError("list notifications", err))
		return
	}
	if list == nil {
		list = []*models.Notification{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": list})
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.feed.MarkRead(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.errors.HandleHTTPError(w, r, stderrors.NewNotFoundError("notification", id))
			return
		}
		s.errors.HandleHTTPError(w, r, stderrors.NewQueryExecutionFailedError("mark notification read", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "notification marked read"})
}
