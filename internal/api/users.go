// internal/api/users.go
package api

import (
	"context"
	"net/http"

	"recruiting-backoffice/internal/common/auth"
	stderrors "recruiting-backoffice/internal/common/errors"
	"recruiting-backoffice/internal/models"
)

// UserDirectory is the identity-gateway slice the user admin routes
// need.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, update auth.UserUpdate) (*models.User, error)
	SetRole(ctx context.Context, id string, role models.Role) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.directory.ListUsers(r.Context())
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.directory.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

type updateUserRequest struct {
	Role      *models.Role `json:"role"`
	Status    *string      `json:"status"` // active | inactive
	FirstName *string      `json:"firstName"`
	LastName  *string      `json:"lastName"`
	Email     *string      `json:"email"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	id := r.PathValue("id")

	update := auth.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if req.Status != nil {
		switch *req.Status {
		case "active":
			enabled := true
			update.Enabled = &enabled
		case "inactive":
			enabled := false
			update.Enabled = &enabled
		default:
			s.errors.HandleHTTPError(w, r, stderrors.NewValidationError("status must be active or inactive"))
			return
		}
	}
	if req.Role != nil && !models.ValidRole(*req.Role) {
		s.errors.HandleHTTPError(w, r, stderrors.NewValidationError("unknown role: "+string(*req.Role)))
		return
	}

	var user *models.User
	var err error
	if update.FirstName != nil || update.LastName != nil || update.Email != nil || update.Enabled != nil {
		user, err = s.directory.UpdateUser(r.Context(), id, update)
		if err != nil {
			s.errors.HandleHTTPError(w, r, err)
			return
		}
	}
	if req.Role != nil {
		user, err = s.directory.SetRole(r.Context(), id, *req.Role)
		if err != nil {
			s.errors.HandleHTTPError(w, r, err)
			return
		}
	}
	if user == nil {
		user, err = s.directory.GetUser(r.Context(), id)
		if err != nil {
			s.errors.HandleHTTPError(w, r, err)
			return
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.directory.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
