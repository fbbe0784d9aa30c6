package api

import (
	"net/http"

	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/services"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

func toAuthResponse(res *services.AuthResult) authResponse {
	return authResponse{Token: res.Token, User: toUserResponse(res.User)}
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	s.metrics.ObserveAuth("register", result(err))
	if err != nil {
		s.writeError(w, r, err, http.StatusBadRequest)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", res.User.ID)
	writeJSON(w, http.StatusCreated, toAuthResponse(res))
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	s.metrics.ObserveAuth("login", result(err))
	if err != nil {
		s.writeError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, toAuthResponse(res))
}

func (s *HTTPServer) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	err := s.users.ChangePassword(r.Context(), userIDFromContext(r.Context()), req.CurrentPassword, req.NewPassword)
	s.metrics.ObserveAuth("change_password", result(err))
	if err != nil {
		s.writeError(w, r, err, http.StatusBadRequest)
		return
	}

	writeMessage(w, http.StatusOK, "Password updated")
}

func (s *HTTPServer) deleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	err := s.users.Deactivate(r.Context(), userID)
	s.metrics.ObserveAuth("deactivate", result(err))
	if err != nil {
		s.writeError(w, r, err, http.StatusUnauthorized)
		return
	}

	s.logger.Info(r.Context(), "Account disabled", "user_id", userID)
	writeMessage(w, http.StatusOK, "Account disabled")
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Me(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}
