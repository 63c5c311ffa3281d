// internal/api/contacts.go
package api

import (
	"net/http"

	"recruiting-backoffice/internal/models"
	"recruiting-backoffice/internal/workflows/contacts"
)

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	list, err := s.contacts.ListContacts(r.Context(), models.ContactStatus(r.URL.Query().Get("status")))
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Contact{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"contacts": list})
}

func (s *Server) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var input contacts.SubmitContactInput
	if err := s.decodeJSON(r, &input); err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	contact, err := s.contacts.SubmitContact(r.Context(), input)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "thank you for reaching out, we will be in touch shortly",
		"contact": contact,
	})
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var input contacts.UpdateContactInput
	if err := s.decodeJSON(r, &input); err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	contact, err := s.contacts.UpdateContact(r.Context(), r.PathValue("id"), input)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"contact": contact})
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := s.contacts.DeleteContact(r.Context(), r.PathValue("id")); err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "contact deleted"})
}
