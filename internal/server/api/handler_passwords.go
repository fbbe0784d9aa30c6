package api

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type savePasswordRequest struct {
	Product  string `json:"product"`
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// credentialResponse keeps the wire name userId for the login field.
type credentialResponse struct {
	ID        string    `json:"id"`
	Product   string    `json:"product"`
	UserID    string    `json:"userId"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCredentialResponse(c *models.Credential) credentialResponse {
	return credentialResponse{
		ID:        c.ID,
		Product:   c.Product,
		UserID:    c.Login,
		Password:  c.Password,
		CreatedAt: c.CreatedAt,
	}
}

func (s *HTTPServer) listPasswords(w http.ResponseWriter, r *http.Request) {
	items, err := s.credentials.List(r.Context(), userIDFromContext(r.Context()))
	s.metrics.ObserveCredential("list", result(err))
	if err != nil {
		s.writeError(w, r, err, http.StatusUnauthorized)
		return
	}

	out := make([]credentialResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toCredentialResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) savePassword(w http.ResponseWriter, r *http.Request) {
	var req savePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	c, created, err := s.credentials.Upsert(r.Context(), userIDFromContext(r.Context()), req.Product, req.UserID, req.Password)
	s.metrics.ObserveCredential("upsert", result(err))
	if err != nil {
		s.writeError(w, r, err, http.StatusUnauthorized)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toCredentialResponse(c))
}

func (s *HTTPServer) deletePassword(w http.ResponseWriter, r *http.Request) {
	err := s.credentials.Delete(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
	s.metrics.ObserveCredential("delete", result(err))
	if err != nil {
		s.writeError(w, r, err, http.StatusUnauthorized)
		return
	}
	writeMessage(w, http.StatusOK, "Password removed")
}
